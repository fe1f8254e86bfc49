// Package whitelist implements the trusted-domain bypass: senders whose
// domain is listed skip the scoring pass entirely.
package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker answers membership queries against the normalized trusted set.
// It operates on already-extracted domains, not full addresses.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a checker over the given domain list. Entries are
// trimmed and lower-cased; empty entries are dropped.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	set := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			set[domain] = struct{}{}
		}
	}

	if len(set) > 0 && logger != nil {
		normalized := make([]string, 0, len(set))
		for domain := range set {
			normalized = append(normalized, domain)
		}
		logger.Info("Initialized whitelist checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// IsTrusted reports whether the sender domain is whitelisted. Subdomains
// of a listed domain are not implied.
func (c *Checker) IsTrusted(domain string) bool {
	if domain == "" {
		return false
	}

	_, ok := c.domains[strings.ToLower(domain)]
	if ok && c.logger != nil {
		c.logger.Debug("Sender domain is whitelisted", zap.String("domain", domain))
	}
	return ok
}
