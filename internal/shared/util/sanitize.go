package util

import (
	"strings"
	"unicode/utf8"
)

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SanitizeFileName removes path separators and control characters so the name
// is safe to echo back in a Content-Disposition header.
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "..", "_")
}
