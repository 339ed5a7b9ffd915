package textclean

import (
	"regexp"
	"unicode/utf8"
)

var markupExpr = regexp.MustCompile(`<.*?>`)

// StripMarkup removes every tag-like substring. Entities are left as-is.
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}
	return markupExpr.ReplaceAllString(text, "")
}

// Truncate cuts text to at most n characters.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}

// Length reports the number of characters in text.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}
