// Package headers extracts authentication facts from raw email headers
// using bounded pattern matching rather than full RFC 5322 parsing.
package headers

import (
	"regexp"
	"strings"

	"github.com/mailrisk/phish-scorer/internal/core"
)

var (
	replyToRe    = regexp.MustCompile(`(?i)Reply-To:\s*<?([^>\s]+@[^>\s]+)>?`)
	returnPathRe = regexp.MustCompile(`(?i)Return-Path:\s*<?([^>\s]+@[^>\s]+)>?`)
	dkimRe       = regexp.MustCompile(`(?is)DKIM-Signature:.*?d=([^;\s]+)`)
	authBlockRe  = regexp.MustCompile(`(?is)Authentication-Results:(.+?)(?:\n\S|\z)`)

	verdictRes = map[string]*regexp.Regexp{
		"dkim":  regexp.MustCompile(`(?i)dkim=(pass|fail|none)`),
		"spf":   regexp.MustCompile(`(?i)spf=(pass|fail|none)`),
		"dmarc": regexp.MustCompile(`(?i)dmarc=(pass|fail|none)`),
	}
)

// Parser implements core.HeaderParser
type Parser struct{}

// NewParser creates a new header parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts reply-to, return-path, the DKIM signer domain and the
// per-mechanism Authentication-Results verdicts from a raw header block.
// Malformed or absent headers yield all-absent facts.
func (p *Parser) Parse(headerBlock string) core.HeaderFacts {
	facts := core.HeaderFacts{
		AuthResults: map[string]core.AuthVerdict{},
	}

	if m := replyToRe.FindStringSubmatch(headerBlock); m != nil {
		facts.ReplyTo = strings.TrimSpace(m[1])
	}
	if m := returnPathRe.FindStringSubmatch(headerBlock); m != nil {
		facts.ReturnPath = strings.TrimSpace(m[1])
	}
	if m := dkimRe.FindStringSubmatch(headerBlock); m != nil {
		facts.DKIMPresent = true
		facts.DKIMDomain = strings.TrimSpace(m[1])
	}

	if m := authBlockRe.FindStringSubmatch(headerBlock); m != nil {
		authText := m[1]
		for mech, re := range verdictRes {
			if v := re.FindStringSubmatch(authText); v != nil {
				facts.AuthResults[mech] = core.AuthVerdict(strings.ToLower(v[1]))
			}
		}
	}

	return facts
}

// ExtractDomain returns the lower-cased part after the first "@".
// A bare domain with no "@" is treated as already being a domain.
func (p *Parser) ExtractDomain(address string) string {
	if i := strings.Index(address, "@"); i >= 0 {
		rest := address[i+1:]
		if j := strings.Index(rest, "@"); j >= 0 {
			rest = rest[:j]
		}
		return strings.ToLower(rest)
	}
	return strings.ToLower(address)
}

// ExtractSubject pulls the Subject value out of a raw header block,
// including folded continuation lines, up to the next header or blank line
func (p *Parser) ExtractSubject(headerBlock string) string {
	lines := strings.Split(headerBlock, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if len(trimmed) < len("Subject:") || !strings.EqualFold(trimmed[:len("Subject:")], "Subject:") {
			continue
		}
		subject := strings.TrimSpace(trimmed[len("Subject:"):])
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimRight(lines[j], "\r")
			if next == "" || (!strings.HasPrefix(next, " ") && !strings.HasPrefix(next, "\t")) {
				break
			}
			subject += " " + strings.TrimSpace(next)
		}
		return strings.TrimSpace(subject)
	}
	return ""
}
