// Package dnscheck implements the DNS authentication posture checks
// against a recursive resolver.
package dnscheck

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// Checker queries MX and TXT records with a short timeout and a single
// attempt. Any resolution failure (NXDOMAIN, timeout, SERVFAIL) is treated
// as "absent" and never propagated.
type Checker struct {
	server string
	client *dns.Client
	logger *zap.Logger
}

// NewChecker creates a checker against the given resolver address
// (host:port)
func NewChecker(server string, timeout time.Duration, logger *zap.Logger) *Checker {
	return &Checker{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
		logger: logger,
	}
}

// HasMX reports whether at least one MX record resolves for the domain
func (c *Checker) HasMX(ctx context.Context, domain string) bool {
	resp, err := c.query(ctx, domain, dns.TypeMX)
	if err != nil {
		c.logger.Debug("MX lookup failed", zap.String("domain", domain), zap.Error(err))
		return false
	}
	for _, ans := range resp.Answer {
		if _, ok := ans.(*dns.MX); ok {
			return true
		}
	}
	return false
}

// HasSPF reports whether the domain publishes a TXT record beginning with
// v=spf1, returning the record when found
func (c *Checker) HasSPF(ctx context.Context, domain string) (bool, string) {
	for _, txt := range c.txtRecords(ctx, domain) {
		if strings.HasPrefix(txt, "v=spf1") {
			return true, txt
		}
	}
	return false, ""
}

// HasDMARC reports whether _dmarc.<domain> publishes a TXT record
// containing v=DMARC1, returning the record when found
func (c *Checker) HasDMARC(ctx context.Context, domain string) (bool, string) {
	for _, txt := range c.txtRecords(ctx, "_dmarc."+domain) {
		if strings.Contains(txt, "v=DMARC1") {
			return true, txt
		}
	}
	return false, ""
}

// txtRecords resolves and reassembles the TXT records of a name, returning
// nil on any resolver failure
func (c *Checker) txtRecords(ctx context.Context, name string) []string {
	resp, err := c.query(ctx, name, dns.TypeTXT)
	if err != nil {
		c.logger.Debug("TXT lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}

	var records []string
	for _, ans := range resp.Answer {
		if t, ok := ans.(*dns.TXT); ok {
			// Long TXT records arrive as 255-byte segments
			records = append(records, strings.Join(t.Txt, ""))
		}
	}
	return records
}

func (c *Checker) query(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	resp, _, err := c.client.ExchangeContext(ctx, msg, c.server)
	return resp, err
}
