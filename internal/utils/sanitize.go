package utils

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy = bluemonday.UGCPolicy()
	// a tag, closing tag, comment or doctype start; a bare "<" is just text
	markupStart = regexp.MustCompile(`<[A-Za-z/!?]`)
)

// SanitizeText strips unsafe markup from user-supplied text. Text without
// markup is returned unchanged apart from surrounding whitespace.
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	if !markupStart.MatchString(s) {
		return s
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
