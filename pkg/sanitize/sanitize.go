// Package sanitize strips markup from user supplied text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML tag from s, keeps the text content and trims the
// result. Block level closing tags become spaces so words do not merge.
func Text(s string) string {
	s = strings.ReplaceAll(s, "</p>", "</p> ")
	s = strings.ReplaceAll(s, "<br>", " ")
	s = strings.ReplaceAll(s, "</div>", "</div> ")

	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Optional applies Text to a nullable value; blank input becomes nil.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Text(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
