package report

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// closing tags or line breaks mark a paste from a rich editor; a lone
	// "a < b" in prose does not
	markupPattern = regexp.MustCompile(`(?i)</[a-z][a-z0-9]*\s*>|<br\s*/?>`)
	blockBreak    = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|h[1-6]|tr)\s*>`)

	// StrictPolicy is safe for concurrent use once built.
	stripPolicy = bluemonday.StrictPolicy()
)

// StripMarkup turns HTML pasted into a text page into plain text. Block ends
// become newlines so paragraphs survive. Text without markup is returned
// unchanged.
func StripMarkup(s string) string {
	if !markupPattern.MatchString(s) {
		return s
	}
	s = blockBreak.ReplaceAllString(s, "\n")
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.TrimRight(s, "\n")
}
