package utils

import (
	"strings"
	"unicode/utf8"
)

// PadRight pads value with spaces on the right to length runes. Values that
// are already long enough are returned unchanged.
func PadRight(value string, length int) string {
	n := utf8.RuneCountInString(value)
	if n >= length {
		return value
	}
	return value + strings.Repeat(" ", length-n)
}

// Coalesce returns the first non-empty value, or "" if all are empty.
func Coalesce(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
