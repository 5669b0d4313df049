package feed

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxSummaryRunes bounds a summary where it is displayed. Items keep the
// full text so relevance matching sees all of it.
const MaxSummaryRunes = 500

var strictPolicy = newStrictPolicy()

func newStrictPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	// "<p>a</p><p>b</p>" must not collapse into "ab"
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// PlainText strips markup from a feed field, unescapes entities and collapses
// whitespace runs into single spaces.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// Truncate cuts s to at most n runes, appending "..." when it had to cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}
