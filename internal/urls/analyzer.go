// Package urls extracts URLs from email bodies and classifies each as a
// shortener, an internationalized (punycode) domain or a brand lookalike.
package urls

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// DefaultShorteners is the built-in set of known URL-shortener domains
var DefaultShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
	"is.gd", "buff.ly", "adf.ly", "bl.ink", "lnkd.in",
}

// DefaultBrands is the built-in set of brand tokens used for lookalike
// detection
var DefaultBrands = []string{
	"google", "microsoft", "apple", "amazon", "paypal",
	"facebook", "twitter", "linkedin", "instagram", "netflix",
}

var (
	urlRe    = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	domainRe = regexp.MustCompile(`https?://([^/]+)`)
)

// confusableGlyphs are characters commonly substituted into lookalike
// domains. The brand-plus-glyph rule is deliberately broad; see the scoring
// engine documentation before tightening it.
const confusableGlyphs = "01li"

// Analyzer implements core.URLAnalyzer over fixed shortener and brand sets
type Analyzer struct {
	shorteners map[string]struct{}
	brands     []string
}

// NewAnalyzer creates a URL analyzer with the given shortener and brand
// sets; empty slices fall back to the built-in defaults
func NewAnalyzer(shorteners, brands []string) *Analyzer {
	if len(shorteners) == 0 {
		shorteners = DefaultShorteners
	}
	if len(brands) == 0 {
		brands = DefaultBrands
	}

	set := make(map[string]struct{}, len(shorteners))
	for _, s := range shorteners {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	normalized := make([]string, 0, len(brands))
	for _, b := range brands {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(b)))
	}

	return &Analyzer{shorteners: set, brands: normalized}
}

// ExtractURLs runs the plain-text pattern pass and, when anchor markup is
// present, the href pass, merged into one list deduplicated by exact URL
// string with first-occurrence order preserved.
func (a *Analyzer) ExtractURLs(body string) []core.URLFact {
	facts := []core.URLFact{}
	seen := map[string]struct{}{}

	add := func(url string) {
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		facts = append(facts, a.analyze(url))
	}

	for _, url := range urlRe.FindAllString(body, -1) {
		add(url)
	}

	if strings.Contains(strings.ToLower(body), "<a") {
		for _, url := range scanHrefs(body) {
			if strings.HasPrefix(url, "http") {
				add(url)
			}
		}
	}

	return facts
}

// analyze classifies a single URL
func (a *Analyzer) analyze(url string) core.URLFact {
	domain := extractDomain(url)

	fact := core.URLFact{
		URL:         url,
		Domain:      domain,
		IsShortener: a.isShortener(domain),
		IsPunycode:  strings.Contains(domain, "xn--"),
		IsLookalike: a.isLookalike(domain),
	}

	if fact.IsPunycode {
		if unicode, err := idna.ToUnicode(domain); err == nil && unicode != domain {
			fact.Unicode = unicode
		}
	}

	return fact
}

func (a *Analyzer) isShortener(domain string) bool {
	_, ok := a.shorteners[domain]
	return ok
}

// isLookalike flags a domain that embeds a known brand token but is not the
// brand's own domain. A near miss by edit distance (<=2 after stripping
// ".com") counts, as does the presence of any confusable glyph alongside a
// brand token.
func (a *Analyzer) isLookalike(domain string) bool {
	for _, brand := range a.brands {
		if !strings.Contains(domain, brand) {
			continue
		}
		if domain == brand+".com" || domain == "www."+brand+".com" {
			continue
		}
		if Levenshtein(strings.ReplaceAll(domain, ".com", ""), brand) <= 2 {
			return true
		}
	}

	// Deliberately unconditional: a confusable glyph next to an embedded
	// brand token flags even the brand's own domain.
	if strings.ContainsAny(domain, confusableGlyphs) {
		for _, brand := range a.brands {
			if strings.Contains(domain, brand) {
				return true
			}
		}
	}

	return false
}

// extractDomain returns the lower-cased authority between the scheme and
// the first path separator
func extractDomain(url string) string {
	if m := domainRe.FindStringSubmatch(url); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// scanHrefs is a minimal streaming anchor-tag scanner: it walks the body
// looking for <a ...> tags and collects their href attribute values without
// building a DOM
func scanHrefs(body string) []string {
	var hrefs []string
	lower := strings.ToLower(body)

	pos := 0
	for {
		start := strings.Index(lower[pos:], "<a")
		if start < 0 {
			break
		}
		start += pos

		// Require a real tag boundary after "<a"
		after := start + 2
		if after >= len(body) || (body[after] != ' ' && body[after] != '\t' && body[after] != '\n' && body[after] != '\r' && body[after] != '>') {
			pos = start + 2
			continue
		}

		end := strings.IndexByte(lower[start:], '>')
		if end < 0 {
			break
		}
		end += start

		tag := lower[start:end]
		if idx := strings.Index(tag, "href"); idx >= 0 {
			if value, ok := attrValue(body[start:end], idx+len("href")); ok {
				hrefs = append(hrefs, value)
			}
		}

		pos = end + 1
	}

	return hrefs
}

// attrValue reads an attribute value starting after the attribute name,
// accepting single-quoted, double-quoted or bare values
func attrValue(tag string, from int) (string, bool) {
	i := from
	for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t' || tag[i] == '\n' || tag[i] == '\r') {
		i++
	}
	if i >= len(tag) || tag[i] != '=' {
		return "", false
	}
	i++
	for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t' || tag[i] == '\n' || tag[i] == '\r') {
		i++
	}
	if i >= len(tag) {
		return "", false
	}

	if tag[i] == '"' || tag[i] == '\'' {
		quote := tag[i]
		i++
		endQuote := strings.IndexByte(tag[i:], quote)
		if endQuote < 0 {
			return tag[i:], true
		}
		return tag[i : i+endQuote], true
	}

	endBare := i
	for endBare < len(tag) && tag[endBare] != ' ' && tag[endBare] != '\t' && tag[endBare] != '\n' && tag[endBare] != '\r' {
		endBare++
	}
	return tag[i:endBare], true
}
