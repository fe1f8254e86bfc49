// Package frontend holds the surfaces that feed emails into the engine.
package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/whitelist"
)

// CLIFrontend scores a single email and prints the result to stdout
type CLIFrontend struct {
	engine    *core.ScoringEngine
	whitelist *whitelist.Checker
	logger    *zap.Logger
	verbose   bool
	jsonOut   bool
}

// NewCLIFrontend creates a new CLI frontend
func NewCLIFrontend(
	engine *core.ScoringEngine,
	whitelist *whitelist.Checker,
	logger *zap.Logger,
	verbose bool,
	jsonOut bool,
) *CLIFrontend {
	return &CLIFrontend{
		engine:    engine,
		whitelist: whitelist,
		logger:    logger,
		verbose:   verbose,
		jsonOut:   jsonOut,
	}
}

// ProcessEmail scores an email and displays the results
func (f *CLIFrontend) ProcessEmail(ctx context.Context, input core.EmailInput) (*core.ScoreResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", input.Sender))

	if fromDomain := senderDomain(input.Sender); f.whitelist.IsTrusted(fromDomain) {
		f.logger.Info("Skipping scoring for whitelisted domain",
			zap.String("sender", input.Sender))
		result := whitelistedResult(fromDomain)
		f.print(input, result, 0)
		return result, nil
	}

	start := time.Now()
	result := f.engine.Score(ctx, input)
	f.print(input, result, time.Since(start))

	return result, nil
}

func (f *CLIFrontend) print(input core.EmailInput, result *core.ScoreResult, duration time.Duration) {
	if f.jsonOut {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			f.logger.Error("Failed to encode result", zap.Error(err))
			return
		}
		fmt.Println(string(encoded))
		return
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", input.Sender)
	fmt.Printf("Header size: %d bytes\n", len(input.Headers))
	fmt.Printf("Body size: %d bytes\n", len(input.Body))

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Scan ID: %s\n", result.ScanID)
	fmt.Printf("Score: %d/100\n", result.Score)
	fmt.Printf("Risk level: %s\n", result.RiskLevel)
	if duration > 0 {
		fmt.Printf("Processing time: %v\n", duration)
	}

	if len(result.Summary) > 0 {
		fmt.Printf("\nTop reasons:\n")
		for _, reason := range result.Summary {
			fmt.Printf("  - %s\n", reason)
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Printf("\nRecommendations:\n")
		for _, rec := range result.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if result.Signals.AIAnalysis.Report != "" {
		fmt.Printf("\nAI report:\n%s\n", result.Signals.AIAnalysis.Report)
	}

	if f.verbose {
		if encoded, err := json.MarshalIndent(result.Signals, "", "  "); err == nil {
			fmt.Printf("\nSignals:\n%s\n", string(encoded))
		}
	}
}

// senderDomain returns the lower-cased domain of an address, or "" when
// the address has none
func senderDomain(address string) string {
	if i := strings.Index(address, "@"); i >= 0 {
		return strings.ToLower(address[i+1:])
	}
	return ""
}

// whitelistedResult builds the zero-score result for a trusted sender
// without running any collaborator
func whitelistedResult(fromDomain string) *core.ScoreResult {
	return &core.ScoreResult{
		ScanID:    uuid.NewString(),
		Score:     0,
		RiskLevel: core.RiskSafe,
		Summary:   []string{"Sender domain is whitelisted"},
		Signals: &core.SignalBag{
			FromDomain:  fromDomain,
			AuthResults: map[string]core.AuthVerdict{},
			URLs:        []core.URLFact{},
			TextFlags:   []string{},
			AIAnalysis:  core.NeutralAIJudgment("Skipped for whitelisted sender"),
		},
		Recommendations: []string{"Email appears legitimate, but always verify unexpected requests"},
		AnalyzedAt:      time.Now().UTC(),
	}
}

// Start is a no-op for the CLI frontend
func (f *CLIFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CLIFrontend) Stop() error {
	return nil
}
