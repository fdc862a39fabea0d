package parse

import "strings"

// Reference derivation helpers. Several group rule tables derive secondary
// reference fields by splitting a primary document number on a separator;
// these keep that string surgery in one place.

// AfterFirst returns the substring after the first occurrence of sep, or s
// unchanged when sep is absent.
func AfterFirst(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

// AfterLast returns the substring after the last occurrence of sep, or s
// unchanged when sep is absent.
func AfterLast(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

// FirstSegment returns the part of s before the first occurrence of sep, or
// s unchanged when sep is absent.
func FirstSegment(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// ShortCode derives the fallback document-type code: the first n characters
// of s, upper-cased. Shorter inputs are upper-cased whole.
func ShortCode(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.ToUpper(s)
}

// ContainsFold reports whether substr occurs in s, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAnyFold reports whether any of the needles occurs in s,
// case-insensitively.
func ContainsAnyFold(s string, needles ...string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
