package auth

import "strings"

const upperhex = "0123456789ABCDEF"

// PercentEncode percent encodes a string according to RFC 3986 2.1.
// Every byte outside the unreserved set is escaped, so multi-byte UTF-8
// sequences are encoded byte-wise.
func PercentEncode(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	writePercentEncoded(&b, input)
	return b.String()
}

func writePercentEncoded(b *strings.Builder, input string) {
	for i := 0; i < len(input); i++ {
		c := input[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		} else {
			b.WriteByte(c)
		}
	}
}

// shouldEscape returns false if the byte is an unreserved character that
// should not be escaped and true otherwise, according to RFC 3986 2.1.
func shouldEscape(c byte) bool {
	// RFC3986 2.3 unreserved characters
	if 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '.', '_', '~':
		return false
	}
	// all other bytes must be escaped
	return true
}
