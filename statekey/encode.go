package statekey

import (
	"fmt"
	"strings"
)

// PropsToKey builds the flat addressing key for an entity identity:
// the descriptor's dash-name followed by one ':'-delimited segment per
// declared key property, in declaration order.
//
// Absent and nil property values encode as empty segments, so a kind with
// zero set properties still produces "<dash-name>:" followed by the empty
// slots ("my-service:::" for three declared properties). Every non-nil
// value is stringified, case-escaped, and validated against the restricted
// alphabet; the first invalid segment aborts the encode with the
// validator's fault unchanged.
func PropsToKey(d Descriptor, props map[string]any) (string, error) {
	if d.KeyProps == nil {
		return "", &KeyError{Kind: ErrMissingKeyProps, Descriptor: d.DisplayName}
	}

	segments := make([]string, 0, len(d.KeyProps))
	for _, name := range d.KeyProps {
		value, ok := segmentValue(props[name])
		if !ok {
			segments = append(segments, "")
			continue
		}
		segment, err := ValidatePart(Escape(value))
		if err != nil {
			return "", err
		}
		segments = append(segments, segment)
	}

	return d.DashName() + ":" + strings.Join(segments, ":"), nil
}

// segmentValue stringifies one property value. The second return is false
// for absent values (nil, or a nil *string as produced by KeyToProps),
// which encode as empty segments.
func segmentValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}
