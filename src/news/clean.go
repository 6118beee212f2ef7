package news

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxTextLen is the longest cleaned text kept; longer text is cut to
// maxTextLen-3 runes plus "...".
const maxTextLen = 200

// CleanText strips markup, decodes entities, collapses whitespace and
// truncates to maxTextLen runes.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if utf8.RuneCountInString(cleaned) > maxTextLen {
		runes := []rune(cleaned)
		cleaned = string(runes[:maxTextLen-3]) + "..."
	}
	return cleaned
}
