package service

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	excerptLength  = 320
	excerptDelim   = " "
	excerptSuffix  = " ..."
	metaDescLength = 160
)

// SmartTrim cuts str to at most length runes plus the delimiter, backing
// off to the last delimiter so words stay whole, then appends appendix.
// Strings already within length are returned unchanged.
func SmartTrim(str string, length int, delimiter, appendix string) string {
	if utf8.RuneCountInString(str) <= length {
		return str
	}
	trimmed := truncateRunes(str, length+utf8.RuneCountInString(delimiter))
	if idx := strings.LastIndex(trimmed, delimiter); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed != "" {
		trimmed += appendix
	}
	return trimmed
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func Excerpt(body string) string {
	return SmartTrim(body, excerptLength, excerptDelim, excerptSuffix)
}

// MetaDescription strips markup from the first 160 characters of body.
func MetaDescription(body string) string {
	return StripHTML(truncateRunes(body, metaDescLength))
}

func MetaTitle(title, appName string) string {
	return title + " | " + appName
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
