package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user-supplied text and decodes the entity
// escaping the policy applies on the way out. Names, notes, and event
// titles are plain text; markup has no business surviving into the ledger,
// but an "&" in a name must come back as an "&".
func Sanitize(input string) string {
	return html.UnescapeString(sanitizer.Sanitize(input))
}
