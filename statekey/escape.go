package statekey

import "strings"

// Escape rewrites every upper-case ASCII letter in value as '-' followed by
// its lower-case form ("A" -> "-a", "aA" -> "a-a"). All other bytes pass
// through unchanged. No alphabet validation happens here; run the result
// through ValidatePart before embedding it in a key.
func Escape(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c - 'A' + 'a')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape inverts Escape: a '-' immediately followed by a lower-case
// letter becomes that letter upper-cased; any other byte passes through.
//
// The scan is greedy, so a literal '-' that happened to precede a
// lower-case letter in the original value is indistinguishable from an
// escaped upper-case letter. The format offers no disambiguation for that
// case; it is a known limitation, not something this package papers over.
func Unescape(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c == '-' && i+1 < len(segment) {
			next := segment[i+1]
			if next >= 'a' && next <= 'z' {
				b.WriteByte(next - 'a' + 'A')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
