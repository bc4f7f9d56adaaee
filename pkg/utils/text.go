// Package utils provides shared utilities for text, math, and logging.
package utils

import "unicode/utf8"

// Truncate returns the first maxLen characters of s, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged. Used for log and terminal previews.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	prefix := PrefixChars(s, maxLen)
	if len(prefix) == len(s) {
		return s
	}
	return prefix + "..."
}

// PrefixChars returns the first n characters (code points) of s. The result is always
// a byte prefix of s. If n is negative or s is not longer than n, s is returned unchanged.
func PrefixChars(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// CharCount returns the number of characters (code points) in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
