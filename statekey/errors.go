package statekey

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one codec fault. Kinds are stable across releases;
// callers branch on them via KindOf or errors.As rather than parsing
// message text.
type ErrorKind int

const (
	// ErrMissingKeyProps means the descriptor never declared its key
	// property list (nil KeyProps). This is a usage error on the caller's
	// side, not a data error in the key.
	ErrMissingKeyProps ErrorKind = iota + 1

	// ErrInvalidAttributeChar means a value or key segment contains a
	// character outside [a-z0-9_-].
	ErrInvalidAttributeChar

	// ErrMissingValues means a key has no ':' after its kind token.
	ErrMissingValues

	// ErrKindMismatch means a key's kind token does not match the
	// descriptor it was decoded against.
	ErrKindMismatch

	// ErrTooManySegments means a key carries more value segments than the
	// descriptor declares properties.
	ErrTooManySegments

	// ErrMissingStateKey means a materialized instance has no state key
	// field.
	ErrMissingStateKey

	// ErrInvalidKeyFormat means a generic key fails the minimal
	// ':'-delimited shape required for kind extraction.
	ErrInvalidKeyFormat
)

// String returns the stable machine-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrMissingKeyProps:
		return "missing_key_props"
	case ErrInvalidAttributeChar:
		return "invalid_attribute_char"
	case ErrMissingValues:
		return "missing_values"
	case ErrKindMismatch:
		return "kind_mismatch"
	case ErrTooManySegments:
		return "too_many_segments"
	case ErrMissingStateKey:
		return "missing_state_key"
	case ErrInvalidKeyFormat:
		return "invalid_key_format"
	default:
		return "unknown"
	}
}

// keyFormatHint is the multi-line diagnostic attached to
// ErrInvalidKeyFormat faults.
const keyFormatHint = `a state key must be ':'-delimited with a leading kind token:
  <kind>:<value>:<value>...
allowed characters are a-z, 0-9, '-' and '_'; upper-case letters in values
are escaped as '-' plus the lower-case letter`

// KeyError is the typed fault returned by every codec operation. Kind is
// always set; the remaining fields carry whatever structured context the
// kind calls for. Faults are never retried or recovered internally, and no
// operation returns a partial result alongside one.
type KeyError struct {
	Kind ErrorKind

	// Value is the offending input: the invalid fragment, the literal
	// key, or a bounded JSON rendering of the instance.
	Value string

	// Expected and Actual carry the two tokens of a kind mismatch.
	Expected string
	Actual   string

	// Descriptor names the descriptor involved, when one was.
	Descriptor string

	// KeyProps is the declared property list, for segment-bound faults.
	KeyProps []string
}

// Error renders the stable templated message for the fault. Interpolated
// values and their order are part of the contract.
func (e *KeyError) Error() string {
	switch e.Kind {
	case ErrMissingKeyProps:
		return fmt.Sprintf("statekey: descriptor %q has no key properties declared", e.Descriptor)
	case ErrInvalidAttributeChar:
		return fmt.Sprintf("statekey: %q contains characters outside [a-z0-9_-]", e.Value)
	case ErrMissingValues:
		return fmt.Sprintf("statekey: key %q is missing values; expected the shape name:someValue", e.Value)
	case ErrKindMismatch:
		return fmt.Sprintf("statekey: key kind %q does not match %q for descriptor %q", e.Actual, e.Expected, e.Descriptor)
	case ErrTooManySegments:
		return fmt.Sprintf("statekey: key %q has more segments than declared key properties %v", e.Value, e.KeyProps)
	case ErrMissingStateKey:
		return fmt.Sprintf("statekey: instance has no state key: %s", e.Value)
	case ErrInvalidKeyFormat:
		return fmt.Sprintf("statekey: %q is not a valid state key\n%s", e.Value, keyFormatHint)
	default:
		return fmt.Sprintf("statekey: unknown fault on %q", e.Value)
	}
}

// KindOf returns the ErrorKind carried by err, or 0 when err is not a
// codec fault.
func KindOf(err error) ErrorKind {
	var ke *KeyError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return 0
}

// IsKind reports whether err is a codec fault of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
