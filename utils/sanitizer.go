package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy strips all markup from user-generated content. Comments are
// plain text; anything that looks like HTML is removed before storage.
var StrictPolicy = bluemonday.StrictPolicy()

// SanitizeComment strips markup and surrounding whitespace from a comment
// body.
func SanitizeComment(content string) string {
	return strings.TrimSpace(StrictPolicy.Sanitize(content))
}
