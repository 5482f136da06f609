package statekey

import "strings"

// KeyToProps parses a key produced by PropsToKey back into its property
// values for the given descriptor. The result has exactly one entry per
// declared key property: a nil pointer for a property the key never
// reached (absent), a pointer to "" for an explicitly empty segment, and
// the unescaped value otherwise.
//
// The key must open with the descriptor's dash-name and a ':' (a bare kind
// token with no delimiter is malformed), and may carry at most as many
// segments as the descriptor declares properties.
func KeyToProps(d Descriptor, key string) (map[string]*string, error) {
	if d.KeyProps == nil {
		return nil, &KeyError{Kind: ErrMissingKeyProps, Descriptor: d.DisplayName}
	}

	kind, rest, found := strings.Cut(key, ":")
	if !found {
		return nil, &KeyError{Kind: ErrMissingValues, Value: key}
	}

	dashName := d.DashName()
	if kind != dashName {
		return nil, &KeyError{
			Kind:       ErrKindMismatch,
			Expected:   dashName,
			Actual:     kind,
			Descriptor: d.DisplayName,
		}
	}

	var segments []string
	if rest != "" {
		segments = strings.Split(rest, ":")
	}
	if len(segments) > len(d.KeyProps) {
		return nil, &KeyError{
			Kind:       ErrTooManySegments,
			Value:      key,
			KeyProps:   d.KeyProps,
			Descriptor: d.DisplayName,
		}
	}

	// The encoder always emits one slot per declared property, so an
	// absent trailing value leaves a single empty segment behind the last
	// ':'. Strip exactly one: a trailing empty segment reads as absent,
	// an interior empty segment as the empty string.
	if n := len(segments); n > 0 && segments[n-1] == "" {
		segments = segments[:n-1]
	}

	props := make(map[string]*string, len(d.KeyProps))
	for i, name := range d.KeyProps {
		if i < len(segments) {
			value := Unescape(segments[i])
			props[name] = &value
		} else {
			props[name] = nil
		}
	}
	return props, nil
}
