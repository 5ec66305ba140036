// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "strings"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Preview collapses all runs of whitespace in s to single spaces and
// truncates the result. Used for one-line previews of chunks and turns.
func Preview(s string, maxLen int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), maxLen)
}
