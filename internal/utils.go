package internal

import (
	"strings"
	"unicode"
)

// SanitizeFilename creates a safe file name prefix from a string. Path
// separators and other special characters become underscores.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}

// isNameRune reports whether r may appear unchanged in a file name
func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.'
}
