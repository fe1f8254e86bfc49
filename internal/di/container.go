package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/config"
	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/factory"
	"github.com/mailrisk/phish-scorer/internal/headers"
	"github.com/mailrisk/phish-scorer/internal/textscan"
	"github.com/mailrisk/phish-scorer/internal/urls"
	"github.com/mailrisk/phish-scorer/internal/utils"
	"github.com/mailrisk/phish-scorer/internal/whitelist"
)

// registerComponents wires the scoring engine and every collaborator the
// configuration selects into the container.
func registerComponents(container *dig.Container) error {
	// Text processor for the AI body excerpt
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Factories
	if err := container.Provide(factory.NewAIFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDNSFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDomainAgeFactory); err != nil {
		return err
	}

	// DNS posture cache (nil when disabled)
	if err := container.Provide(func(f *factory.CacheFactory) (core.PostureCache, error) {
		return f.CreatePostureCache()
	}); err != nil {
		return err
	}

	// DNS checker, cache-decorated when a cache is configured
	if err := container.Provide(func(f *factory.DNSFactory, cache core.PostureCache) (core.DNSAuthChecker, error) {
		return f.CreateChecker(cache)
	}); err != nil {
		return err
	}

	// AI analyzer
	if err := container.Provide(func(f *factory.AIFactory) (core.AIAnalyzer, error) {
		return f.CreateAnalyzer()
	}); err != nil {
		return err
	}

	// Domain age provider
	if err := container.Provide(func(f *factory.DomainAgeFactory) core.DomainAgeProvider {
		return f.CreateProvider()
	}); err != nil {
		return err
	}

	// Pure analyzers
	if err := container.Provide(func() core.HeaderParser {
		return headers.NewParser()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config) core.URLAnalyzer {
		analysisCfg := cfg.GetAnalysis()
		return urls.NewAnalyzer(analysisCfg.Shorteners, analysisCfg.Brands)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() core.TextClassifier {
		return textscan.NewClassifier()
	}); err != nil {
		return err
	}

	// Whitelist checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetAnalysis().WhitelistedDomains, logger)
	}); err != nil {
		return err
	}

	// Scoring engine
	if err := container.Provide(core.NewScoringEngine); err != nil {
		return err
	}

	return nil
}
