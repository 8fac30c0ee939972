package model

import "strings"

// CleanID maps an arbitrary display string onto the identifier charset
// accepted by Radiance scene files: ASCII letters, digits, underscore and
// hyphen. Every other rune becomes an underscore.
func CleanID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
