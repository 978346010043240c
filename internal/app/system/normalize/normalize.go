// Package normalize provides canonicalization helpers applied to
// user-supplied fields before they reach a store.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Gender canonicalizes a gender value to its enum form
// (Male, Female, Other). Unrecognized values are returned
// trimmed so the store's validation can reject them.
func Gender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return "Male"
	case "female":
		return "Female"
	case "other":
		return "Other"
	}
	return strings.TrimSpace(s)
}
