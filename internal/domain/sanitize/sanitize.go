// Package sanitize strips markup from user supplied free text before it is stored.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding Text will peel.
const maxPasses = 4

// Text removes all HTML, decodes entities and trims surrounding whitespace.
// Markup hidden behind entities is decoded and stripped again until the
// result is stable. Input still changing after maxPasses keeps its entities.
func Text(value string) string {
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(policy.Sanitize(value))
		if next == value {
			return strings.TrimSpace(value)
		}
		value = next
	}
	return strings.TrimSpace(policy.Sanitize(value))
}

// TooLong reports whether value exceeds max runes.
func TooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}
