// Package normalize centralizes input normalization for form values.
//
// Usernames are deliberately NOT case-folded: authentication is an exact,
// case-sensitive match, so the stored value must be exactly what the user
// typed (minus surrounding whitespace).
package normalize

import "strings"

// Username trims surrounding whitespace and nothing else.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role token.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Text trims surrounding whitespace from free text (notes, content).
func Text(s string) string {
	return strings.TrimSpace(s)
}
