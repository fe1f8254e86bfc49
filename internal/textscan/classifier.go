// Package textscan classifies email body text against four independent
// categories of phishing language.
package textscan

import (
	"regexp"
	"strings"

	"github.com/mailrisk/phish-scorer/internal/core"
)

var urgencyPatterns = compile(
	`\b(urgent|immediately|asap|right away|act now|time sensitive|expires|deadline)\b`,
	`\b(within \d+ (hours?|minutes?|days?))\b`,
	`\b(limited time|last chance|final notice)\b`,
)

var threatPatterns = compile(
	`\b(suspend|suspended|locked|blocked|terminated|closed|disabled)\b`,
	`\b(unauthorized|suspicious activity|security alert|breach)\b`,
	`\b(legal action|lawsuit|penalty|fine)\b`,
)

var credentialPatterns = compile(
	`\b(verify|confirm|update|validate) (your )?(account|identity|information|credentials|password)\b`,
	`\b(click here|log in|sign in) to (verify|confirm|update|restore)\b`,
	`\b(re-?enter|provide|submit) (your )?(password|credentials|information)\b`,
)

var paymentPatterns = compile(
	`\b(payment|invoice|refund|transaction|billing|charge)\b`,
	`\b(bank|credit card|debit card|account number|routing number)\b`,
	`\b(wire transfer|send money|pay now)\b`,
)

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// Classifier implements core.TextClassifier. The four categories are
// independent; an email can trip any combination of them.
type Classifier struct{}

// NewClassifier creates a new text classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Analyze scans the lower-cased body and returns the set of category flags
// that fired, in fixed category order
func (c *Classifier) Analyze(body string) []string {
	lowered := strings.ToLower(body)
	flags := []string{}

	if anyMatch(lowered, urgencyPatterns) {
		flags = append(flags, core.FlagUrgency)
	}
	if anyMatch(lowered, threatPatterns) {
		flags = append(flags, core.FlagThreats)
	}
	if anyMatch(lowered, credentialPatterns) {
		flags = append(flags, core.FlagCredentialRequest)
	}
	if anyMatch(lowered, paymentPatterns) {
		flags = append(flags, core.FlagPaymentRequest)
	}

	return flags
}

func anyMatch(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
