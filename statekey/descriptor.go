package statekey

import "strings"

// Descriptor describes one addressable entity kind: a human-readable
// display name plus the ordered list of property names that form the key.
// Property order is semantically significant; it defines the positional
// slots in every key produced for this kind.
//
// A nil KeyProps means the kind never declared its key properties, which
// every codec operation rejects as a usage error. An empty (non-nil) slice
// is a valid kind with zero key properties.
//
// Descriptors are plain values supplied by the caller, typically from the
// registry package. The codec never mutates them.
type Descriptor struct {
	// DisplayName identifies the kind, e.g. a service or type name
	// ("myService"). Its case pattern produces the dashes in the key
	// prefix.
	DisplayName string

	// KeyProps lists the property names that make up the key, in slot
	// order.
	KeyProps []string
}

// DashName returns the key prefix token for this descriptor: the display
// name with every upper-case letter escaped to '-' plus its lower-case
// form, then lower-cased overall ("myService" -> "my-service").
func (d Descriptor) DashName() string {
	return strings.ToLower(Escape(d.DisplayName))
}
