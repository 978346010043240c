// Package htmlsanitize strips markup from user-supplied text.
//
// Employee fields are plain text; anything that looks like HTML in
// them is attacker-controlled and is removed before storage so the
// admin UI can render values without escaping surprises.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML tags from s, keeping the text content.
func Strip(s string) string {
	return strict.Sanitize(s)
}
