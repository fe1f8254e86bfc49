package dnscheck

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// CachedChecker decorates a DNSAuthChecker with a per-domain posture cache.
// The first check for a domain resolves all three facts in one shot and
// stores them; subsequent checks within the TTL skip the resolver entirely.
type CachedChecker struct {
	inner  core.DNSAuthChecker
	cache  core.PostureCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedChecker wraps a checker with the given posture cache
func NewCachedChecker(inner core.DNSAuthChecker, cache core.PostureCache, ttl time.Duration, logger *zap.Logger) *CachedChecker {
	return &CachedChecker{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// HasMX reports the cached or freshly resolved MX presence
func (c *CachedChecker) HasMX(ctx context.Context, domain string) bool {
	return c.posture(ctx, domain).MXPresent
}

// HasSPF reports the cached or freshly resolved SPF posture
func (c *CachedChecker) HasSPF(ctx context.Context, domain string) (bool, string) {
	p := c.posture(ctx, domain)
	return p.SPFPresent, p.SPFRecord
}

// HasDMARC reports the cached or freshly resolved DMARC posture
func (c *CachedChecker) HasDMARC(ctx context.Context, domain string) (bool, string) {
	p := c.posture(ctx, domain)
	return p.DMARCPresent, p.DMARCRecord
}

func (c *CachedChecker) posture(ctx context.Context, domain string) *core.DomainPosture {
	if cached, ok := c.cache.Get(ctx, domain); ok {
		c.logger.Debug("DNS posture cache hit", zap.String("domain", domain))
		return cached
	}

	posture := &core.DomainPosture{
		Domain:    domain,
		CheckedAt: time.Now(),
	}
	posture.MXPresent = c.inner.HasMX(ctx, domain)
	posture.SPFPresent, posture.SPFRecord = c.inner.HasSPF(ctx, domain)
	posture.DMARCPresent, posture.DMARCRecord = c.inner.HasDMARC(ctx, domain)

	c.cache.Set(ctx, posture, c.ttl)
	return posture
}
