package statekey

import "strings"

// KindRefDelimiter wraps both sides of a bare-kind reference. Dash-names
// are non-empty validated tokens, so no full key ever starts with it; the
// wrapping makes a kind reference impossible to mistake for a key.
const KindRefDelimiter = ":"

// KindToken extracts the leading kind token from any addressing key,
// without needing the kind's descriptor, and returns it in canonical
// bare-kind form: the token wrapped in KindRefDelimiter on both sides
// ("my-service:abc:1" -> ":my-service:").
//
// A key with no ':' at all fails with ErrInvalidKeyFormat, whose message
// spells out the expected shape.
func KindToken(key string) (string, error) {
	kind, _, found := strings.Cut(key, ":")
	if !found {
		return "", &KeyError{Kind: ErrInvalidKeyFormat, Value: key}
	}
	return KindRefDelimiter + kind + KindRefDelimiter, nil
}
