// Package normalize holds small input-normalization helpers applied before
// anything is persisted, so lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Department trims and lowercases a department name so "IT" and " it "
// route to the same reviewers.
func Department(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
