package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/c360/statekit/errors"
	"github.com/c360/statekit/statekey"
)

// descriptorFile is the YAML document shape for descriptor files:
//
//	descriptors:
//	  - kind: myService
//	    keyProps: [a, propB, c]
//	  - kind: drone
//	    displayName: surveyDrone
//	    keyProps: [fleet, serial]
type descriptorFile struct {
	Descriptors []descriptorEntry `yaml:"descriptors"`
}

type descriptorEntry struct {
	Kind        string   `yaml:"kind"`
	DisplayName string   `yaml:"displayName"`
	KeyProps    []string `yaml:"keyProps"`
}

// Load reads a YAML descriptor document and registers every entry.
// Entries are validated before any of them is registered, so a bad file
// never partially applies.
func Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "registry", "Load", "read descriptor document")
	}

	var file descriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.WrapInvalid(err, "registry", "Load", "parse descriptor document")
	}

	validated := make(map[string]statekey.Descriptor, len(file.Descriptors))
	for i, entry := range file.Descriptors {
		d, err := validateEntry(i, entry)
		if err != nil {
			return err
		}
		validated[entry.Kind] = d
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	for kind, d := range validated {
		descriptors[kind] = d
	}
	return nil
}

// LoadFile loads descriptors from a YAML file on disk.
func LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "registry", "LoadFile", "open descriptor file")
	}
	defer f.Close()
	return Load(f)
}

func validateEntry(index int, entry descriptorEntry) (statekey.Descriptor, error) {
	if entry.Kind == "" {
		return statekey.Descriptor{}, errors.WrapInvalid(errors.ErrMissingConfig,
			"registry", "Load", fmt.Sprintf("descriptor %d has no kind", index))
	}
	if entry.KeyProps == nil {
		return statekey.Descriptor{}, errors.WrapInvalid(errors.ErrMissingConfig,
			"registry", "Load", fmt.Sprintf("descriptor %q declares no keyProps", entry.Kind))
	}

	d := statekey.Descriptor{DisplayName: entry.Kind, KeyProps: entry.KeyProps}
	if entry.DisplayName != "" {
		d.DisplayName = entry.DisplayName
	}

	// The dash-name becomes the literal key prefix, so it must fit the
	// restricted alphabet up front rather than failing on first encode.
	if _, err := statekey.ValidatePart(d.DashName()); err != nil {
		return statekey.Descriptor{}, errors.WrapInvalid(err,
			"registry", "Load", fmt.Sprintf("descriptor %q display name", entry.Kind))
	}
	for _, prop := range entry.KeyProps {
		if prop == "" {
			return statekey.Descriptor{}, errors.WrapInvalid(errors.ErrInvalidConfig,
				"registry", "Load", fmt.Sprintf("descriptor %q has an empty key property name", entry.Kind))
		}
	}
	return d, nil
}
