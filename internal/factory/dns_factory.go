package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/adapters/dnscheck"
	"github.com/mailrisk/phish-scorer/internal/config"
	"github.com/mailrisk/phish-scorer/internal/core"
)

// DNSFactory creates DNS authentication checkers
type DNSFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDNSFactory creates a new DNS checker factory
func NewDNSFactory(cfg *config.Config, logger *zap.Logger) *DNSFactory {
	return &DNSFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateChecker creates the resolver-backed checker, wrapped in the
// posture-cache decorator when a cache is available
func (f *DNSFactory) CreateChecker(postureCache core.PostureCache) (core.DNSAuthChecker, error) {
	dnsCfg := f.cfg.GetDNS()
	checker := dnscheck.NewChecker(dnsCfg.Server, dnsCfg.Timeout, f.logger)

	if postureCache == nil {
		return checker, nil
	}

	ttl, err := f.cfg.GetDuration("cache.ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}
	return dnscheck.NewCachedChecker(checker, postureCache, ttl, f.logger), nil
}
