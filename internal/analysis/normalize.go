// internal/analysis/normalize.go

package analysis

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes all markup from a post body and returns the text content.
// Text runs separated only by tags are concatenated without extra separators,
// so whitespace boundaries survive exactly as they appear between tags.
// Malformed markup is tolerated best-effort: the tokenizer emits unterminated
// tags as plain text rather than failing.
func StripHTML(raw string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input past the point of recovery; either
			// way the text collected so far is the answer.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
