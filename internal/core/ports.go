package core

import (
	"context"
	"time"
)

// DNSAuthChecker queries the DNS authentication posture of a sender domain.
// Every method swallows resolver failures and reports the negative result:
// an unresolvable domain is itself a signal, not an engine fault.
type DNSAuthChecker interface {
	// HasMX reports whether the domain has at least one MX record
	HasMX(ctx context.Context, domain string) bool

	// HasSPF reports whether the domain publishes an SPF TXT record,
	// returning the record text when present
	HasSPF(ctx context.Context, domain string) (bool, string)

	// HasDMARC reports whether _dmarc.<domain> publishes a DMARC record,
	// returning the record text when present
	HasDMARC(ctx context.Context, domain string) (bool, string)
}

// DomainAgeProvider estimates how long ago a domain was registered.
// Implementations must never block indefinitely and must return nil
// (unknown) on any failure rather than an error.
type DomainAgeProvider interface {
	// AgeDays returns the domain age in days, or nil when unknown
	AgeDays(ctx context.Context, domain string) *int
}

// AIAnalyzer is the optional generative-AI judgment capability
type AIAnalyzer interface {
	// Judge assesses an email and returns a structured judgment.
	// The error is advisory: callers degrade to the neutral judgment.
	Judge(ctx context.Context, sender, subject, body string) (AIJudgment, error)

	// Enabled reports whether a backend is configured
	Enabled() bool
}

// HeaderFacts holds the structured facts extracted from a raw header block
type HeaderFacts struct {
	ReplyTo     string
	ReturnPath  string
	DKIMPresent bool
	DKIMDomain  string
	AuthResults map[string]AuthVerdict
}

// HeaderParser extracts structured facts from raw header text.
// Malformed or absent headers yield all-absent facts, never an error.
type HeaderParser interface {
	Parse(headers string) HeaderFacts
	ExtractDomain(address string) string
	ExtractSubject(headers string) string
}

// URLAnalyzer extracts and classifies the unique URLs in a body
type URLAnalyzer interface {
	ExtractURLs(body string) []URLFact
}

// TextClassifier scans a body for phishing language categories
type TextClassifier interface {
	Analyze(body string) []string
}

// PostureCache caches DNS authentication posture per domain so that
// repeated scans of the same sender skip the resolver round-trips
type PostureCache interface {
	// Get retrieves a cached posture for a domain
	Get(ctx context.Context, domain string) (*DomainPosture, bool)

	// Set stores a posture with the given time-to-live
	Set(ctx context.Context, posture *DomainPosture, ttl time.Duration)

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
