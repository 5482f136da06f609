// Package statekey implements the reversible codec between a structured
// entity identity and its flat addressing key.
//
// An identity is a Descriptor (entity kind plus ordered property names) and
// a map of property values. PropsToKey flattens the pair into a single
// ':'-delimited string; KeyToProps inverts it. Values round-trip as strings:
// upper-case letters are escaped into the restricted key alphabet as '-'
// plus the lower-case letter, and everything else must already fit
// [a-z0-9_-].
//
// All functions are pure and stateless. The descriptor is always an
// explicit argument; nothing in this package holds process-wide state, so
// any number of calls may run concurrently without coordination.
//
// Failures are *KeyError values carrying a machine-checkable Kind plus the
// structured context (offending string, expected vs actual token,
// descriptor name). Message text is stable and interpolates the same values
// in the same order across releases, so callers may branch on either.
package statekey
