// Package registry holds the process-wide descriptor registry: the
// mapping from entity kind name to the statekey.Descriptor that the codec
// needs to build and parse that kind's addressing keys.
//
// Applications register their kinds during package initialization (init
// functions) or load them from YAML descriptor files. The codec itself
// never touches this registry; descriptors are always passed to it
// explicitly.
package registry

import (
	"sort"
	"sync"

	"github.com/c360/statekit/statekey"
)

var (
	registryMu  sync.RWMutex
	descriptors = make(map[string]statekey.Descriptor)
)

// Option is a functional option for configuring descriptor registration.
type Option func(*statekey.Descriptor)

// WithDisplayName overrides the display name used to derive the key
// prefix. By default the registered kind name is the display name.
func WithDisplayName(name string) Option {
	return func(d *statekey.Descriptor) {
		d.DisplayName = name
	}
}

// WithKeyProps declares the ordered key property list for the kind.
// Declaring zero properties is valid; not calling WithKeyProps leaves the
// descriptor undeclared and every codec call on it fails.
func WithKeyProps(props ...string) Option {
	return func(d *statekey.Descriptor) {
		if props == nil {
			props = []string{}
		}
		d.KeyProps = props
	}
}

// Register registers a kind with its descriptor in the global registry.
//
// If a kind is already registered it is overwritten, which enables
// domain-specific overrides.
//
// Example:
//
//	registry.Register("myService",
//	    registry.WithKeyProps("a", "propB", "c"))
func Register(kind string, opts ...Option) {
	d := statekey.Descriptor{DisplayName: kind}
	for _, opt := range opts {
		opt(&d)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	descriptors[kind] = d
}

// Lookup retrieves the descriptor for a kind. The second return is false
// when the kind was never registered. The returned descriptor is a copy;
// mutating it does not affect the registry.
func Lookup(kind string) (statekey.Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := descriptors[kind]
	if !ok {
		return statekey.Descriptor{}, false
	}
	if d.KeyProps != nil {
		d.KeyProps = append([]string(nil), d.KeyProps...)
	}
	return d, true
}

// List returns the registered kind names in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]string, 0, len(descriptors))
	for kind := range descriptors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Clear removes all registered descriptors.
// This is primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	descriptors = make(map[string]statekey.Descriptor)
}
