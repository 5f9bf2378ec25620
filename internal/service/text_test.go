package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmartTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		length   int
		expected string
	}{
		{name: "short string unchanged", input: "hello world", length: 20, expected: "hello world"},
		{name: "exact length unchanged", input: "hello", length: 5, expected: "hello"},
		{name: "cuts at last delimiter", input: "the quick brown fox jumps", length: 12, expected: "the quick ..."},
		{name: "delimiter right after limit is kept", input: "the quick brown fox", length: 9, expected: "the quick ..."},
		{name: "no delimiter keeps raw cut", input: "abcdefghijklmnop", length: 5, expected: "abcdef ..."},
		{name: "multibyte runes are not split", input: "ääää ääää ääää", length: 6, expected: "ääää ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SmartTrim(tt.input, tt.length, " ", " ..."))
		})
	}
}

func TestExcerpt(t *testing.T) {
	body := strings.Repeat("word ", 100)
	excerpt := Excerpt(body)

	assert.True(t, strings.HasSuffix(excerpt, " ..."))
	assert.LessOrEqual(t, len(excerpt), excerptLength+len(excerptSuffix))
	assert.NotContains(t, strings.TrimSuffix(excerpt, " ..."), "wor ")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hello world and more", StripHTML("<p>Hello <b>world</b></p><p>and more</p>"))
	assert.Equal(t, "a < b", StripHTML("a &lt; b"))
	assert.Equal(t, "", StripHTML("<br/>"))
}

func TestMetaFields(t *testing.T) {
	body := "<p>" + strings.Repeat("x", 300) + "</p>"
	desc := MetaDescription(body)

	assert.Equal(t, strings.Repeat("x", metaDescLength-3), desc)
	assert.Equal(t, "Go tips | SEOBLOG", MetaTitle("Go tips", "SEOBLOG"))
}
