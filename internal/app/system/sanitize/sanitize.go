// Package sanitize strips markup from user-supplied text before it is
// persisted. Training-request answers are plain text, so the strict policy
// (no tags at all) is the right one; anything that survives is safe to echo
// back to any frontend without escaping surprises.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
