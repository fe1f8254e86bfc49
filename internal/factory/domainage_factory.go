package factory

import (
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/adapters/domainage"
	"github.com/mailrisk/phish-scorer/internal/config"
	"github.com/mailrisk/phish-scorer/internal/core"
)

// DomainAgeFactory creates domain age providers
type DomainAgeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDomainAgeFactory creates a new domain age provider factory
func NewDomainAgeFactory(cfg *config.Config, logger *zap.Logger) *DomainAgeFactory {
	return &DomainAgeFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProvider creates a domain age provider by configuration name.
// Unknown names fall back to the always-unknown provider.
func (f *DomainAgeFactory) CreateProvider() core.DomainAgeProvider {
	name := f.cfg.GetString("domain_age.provider")
	switch name {
	case "null", "":
		return domainage.NewNullProvider()
	default:
		f.logger.Warn("Unknown domain age provider, using null provider",
			zap.String("provider", name))
		return domainage.NewNullProvider()
	}
}
