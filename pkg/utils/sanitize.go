package utils

import (
	"strings"
	"unicode/utf8"
)

const maxSearchLength = 100

// EscapeSQLWildcards escapes SQL LIKE wildcard characters so user input
// cannot widen a pattern match
func EscapeSQLWildcards(input string) string {
	// Escape backslash first (as it's the escape character)
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for safe LIKE usage
// Returns the sanitized term wrapped with % for partial matching
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	// Limit length to prevent DoS
	input = TruncateString(input, maxSearchLength)
	input = EscapeSQLWildcards(input)
	return "%" + input + "%"
}

// TruncateString truncates a string to at most maxLen bytes without
// splitting a multibyte rune, so the result stays valid UTF-8.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
