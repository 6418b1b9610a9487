// Package htmlsanitize strips unsafe markup from user-supplied text before
// it reaches a template.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic user-generated formatting (links, lists, emphasis)
	// while removing scripts, event handlers, and javascript: URLs.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving text only.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans s for display where light formatting is acceptable,
// such as submission content.
func Sanitize(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Plain strips every tag from s. Used for single-line values like notes.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
