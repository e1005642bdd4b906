// internal/utils/text.go
package utils

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const ExcerptLength = 150

var stripTagsPolicy = bluemonday.StripTagsPolicy()

// StripHTML removes every tag from content and decodes the entities the
// sanitizer leaves behind.
func StripHTML(content string) string {
	return html.UnescapeString(stripTagsPolicy.Sanitize(content))
}

// Truncate cuts s to maxLength runes and appends an ellipsis when it had to.
func Truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

// Excerpt is the plain-text preview of a description shown on exhibit cards.
func Excerpt(description string) string {
	text := strings.Join(strings.Fields(StripHTML(description)), " ")
	return Truncate(text, ExcerptLength)
}
