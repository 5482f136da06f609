package statekey

// ValidatePart checks one key fragment against the restricted alphabet
// [a-z0-9_-] and returns it unchanged on success. The empty string is
// valid. Failure is a *KeyError with kind ErrInvalidAttributeChar naming
// the full offending string.
//
// The alphabet is four byte ranges, so a plain byte scan beats a regexp
// here: keys are built on every store operation and the scan allocates
// nothing.
func ValidatePart(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return "", &KeyError{Kind: ErrInvalidAttributeChar, Value: s}
	}
	return s, nil
}
