package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScoringEngine runs one weighted-evidence pass over an email. It is
// stateless across calls; concurrent passes share only read-only tables.
type ScoringEngine struct {
	dns       DNSAuthChecker
	headers   HeaderParser
	urls      URLAnalyzer
	text      TextClassifier
	domainAge DomainAgeProvider
	ai        AIAnalyzer
	logger    *zap.Logger
}

// NewScoringEngine creates a new scoring engine
func NewScoringEngine(
	dns DNSAuthChecker,
	headers HeaderParser,
	urls URLAnalyzer,
	text TextClassifier,
	domainAge DomainAgeProvider,
	ai AIAnalyzer,
	logger *zap.Logger,
) *ScoringEngine {
	return &ScoringEngine{
		dns:       dns,
		headers:   headers,
		urls:      urls,
		text:      text,
		domainAge: domainAge,
		ai:        ai,
		logger:    logger,
	}
}

// Score runs the full pipeline for one email: signal collection, weighted
// accumulation, risk-level mapping and recommendation generation. It never
// returns an error for collaborator failures; those degrade to negative or
// neutral signals inside collectSignals.
func (e *ScoringEngine) Score(ctx context.Context, input EmailInput) *ScoreResult {
	start := time.Now()
	fromDomain := e.headers.ExtractDomain(input.Sender)

	signals := e.collectSignals(ctx, input, fromDomain)
	score, reasons := e.calculateScore(signals)
	level := RiskLevelForScore(score)

	result := &ScoreResult{
		ScanID:          uuid.NewString(),
		Score:           score,
		RiskLevel:       level,
		Summary:         reasons,
		Signals:         signals,
		Recommendations: e.recommendations(signals, level),
		AnalyzedAt:      time.Now().UTC(),
	}

	e.logger.Debug("Scoring pass complete",
		zap.String("scan_id", result.ScanID),
		zap.String("from_domain", fromDomain),
		zap.Int("score", score),
		zap.String("risk_level", string(level)),
		zap.Duration("elapsed", time.Since(start)))

	return result
}

// collectSignals fans the six independent gather operations out as
// concurrent tasks. Each task writes a disjoint set of SignalBag fields,
// so the completed bag is identical regardless of completion order.
func (e *ScoringEngine) collectSignals(ctx context.Context, input EmailInput, fromDomain string) *SignalBag {
	signals := &SignalBag{
		FromDomain:  fromDomain,
		AuthResults: map[string]AuthVerdict{},
		URLs:        []URLFact{},
		TextFlags:   []string{},
	}

	g, gctx := errgroup.WithContext(ctx)

	// DNS posture: three checks against the resolver, each failure-tolerant
	g.Go(func() error {
		signals.MXPresent = e.dns.HasMX(gctx, fromDomain)
		signals.SPFPresent, signals.SPFRecord = e.dns.HasSPF(gctx, fromDomain)
		signals.DMARCPresent, signals.DMARCRecord = e.dns.HasDMARC(gctx, fromDomain)
		return nil
	})

	// Header facts and mismatch flags
	g.Go(func() error {
		facts := e.headers.Parse(input.Headers)
		signals.DKIMPresent = facts.DKIMPresent
		signals.DKIMDomain = facts.DKIMDomain
		signals.AuthResults = facts.AuthResults
		if facts.ReplyTo != "" {
			signals.ReplyToMismatch = e.headers.ExtractDomain(facts.ReplyTo) != fromDomain
		}
		if facts.ReturnPath != "" {
			signals.ReturnPathMismatch = e.headers.ExtractDomain(facts.ReturnPath) != fromDomain
		}
		return nil
	})

	// URL extraction and classification
	g.Go(func() error {
		signals.URLs = e.urls.ExtractURLs(input.Body)
		return nil
	})

	// Text pattern classification
	g.Go(func() error {
		signals.TextFlags = e.text.Analyze(input.Body)
		return nil
	})

	// Domain age lookup
	g.Go(func() error {
		signals.DomainAgeDays = e.domainAge.AgeDays(gctx, fromDomain)
		return nil
	})

	// AI judgment, degrading to neutral on any failure. A disabled
	// analyzer skips the dispatch entirely.
	if e.ai.Enabled() {
		g.Go(func() error {
			subject := e.headers.ExtractSubject(input.Headers)
			judgment, err := e.ai.Judge(gctx, input.Sender, subject, input.Body)
			if err != nil {
				e.logger.Warn("AI analysis failed, using neutral judgment",
					zap.String("from_domain", fromDomain),
					zap.Error(err))
				judgment = NeutralAIJudgment(fmt.Sprintf("AI analysis error: %s", truncate(err.Error(), 100)))
			}
			signals.AIAnalysis = judgment
			return nil
		})
	} else {
		signals.AIAnalysis = NeutralAIJudgment("AI analysis not available")
	}

	// The tasks only report nil; Wait is for the join, not error handling.
	_ = g.Wait()

	return signals
}

// evidence pairs a fired checklist row with its rendered reason
type evidence struct {
	kind   SignalKind
	weight int
	reason string
}

// calculateScore walks the ordered checklist once, accumulates the weights
// of the conditions that hold, clamps the total to [0,100] and returns the
// top reasons ranked by descending weight (stable on evaluation order).
func (e *ScoringEngine) calculateScore(signals *SignalBag) (int, []string) {
	score := 0
	collected := make([]evidence, 0, len(checklist))

	for _, check := range checklist {
		fired, reason := check.applies(signals)
		if !fired {
			continue
		}
		score += check.weight
		collected = append(collected, evidence{kind: check.kind, weight: check.weight, reason: reason})
	}

	if score > 100 {
		score = 100
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].weight > collected[j].weight
	})

	limit := 4
	if len(collected) < limit {
		limit = len(collected)
	}
	reasons := make([]string, 0, limit)
	for _, ev := range collected[:limit] {
		reasons = append(reasons, ev.reason)
	}
	return score, reasons
}

// recommendations renders tier-based advice plus signal-specific add-ons,
// truncated to the first six entries
func (e *ScoringEngine) recommendations(signals *SignalBag, level RiskLevel) []string {
	recs := make([]string, 0, 8)

	switch level {
	case RiskHigh:
		recs = append(recs,
			"Do not click any links or download attachments",
			"Do not reply or provide any personal information",
			"Report this email to your IT security team")
	case RiskMedium:
		recs = append(recs,
			"Verify sender identity through a separate channel before taking action",
			"Be cautious with links and attachments")
	default:
		recs = append(recs, "Email appears legitimate, but always verify unexpected requests")
	}

	ai := signals.AIAnalysis
	if ai.RiskScore > 50 && ai.Reasoning != "" && len(ai.Reasoning) < 150 {
		recs = append(recs, fmt.Sprintf("AI insight: %s", ai.Reasoning))
	}

	if !signals.SPFPresent || !signals.DMARCPresent {
		recs = append(recs, "This domain doesn't have proper security measures in place")
	}

	for _, u := range signals.URLs {
		if u.IsShortener {
			recs = append(recs, "Don't click shortened links - they hide where they really go")
			break
		}
	}

	if signals.HasTextFlag(FlagCredentialRequest) {
		recs = append(recs, "Real companies never ask for your password in an email")
	}

	if signals.HasTextFlag(FlagPaymentRequest) {
		recs = append(recs, "Call the company directly to verify any payment requests")
	}

	if len(recs) > 6 {
		recs = recs[:6]
	}
	return recs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
