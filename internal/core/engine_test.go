package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDNS struct {
	mx    bool
	spf   bool
	dmarc bool
}

func (s *stubDNS) HasMX(ctx context.Context, domain string) bool { return s.mx }
func (s *stubDNS) HasSPF(ctx context.Context, domain string) (bool, string) {
	if s.spf {
		return true, "v=spf1 include:_spf.example.com ~all"
	}
	return false, ""
}
func (s *stubDNS) HasDMARC(ctx context.Context, domain string) (bool, string) {
	if s.dmarc {
		return true, "v=DMARC1; p=reject"
	}
	return false, ""
}

type stubHeaders struct {
	facts   HeaderFacts
	subject string
}

func (s *stubHeaders) Parse(headers string) HeaderFacts { return s.facts }
func (s *stubHeaders) ExtractDomain(address string) string {
	at := strings.Index(address, "@")
	if at < 0 {
		return strings.ToLower(address)
	}
	return strings.ToLower(address[at+1:])
}
func (s *stubHeaders) ExtractSubject(headers string) string { return s.subject }

type stubURLs struct{ facts []URLFact }

func (s *stubURLs) ExtractURLs(body string) []URLFact { return s.facts }

type stubText struct{ flags []string }

func (s *stubText) Analyze(body string) []string { return s.flags }

type stubDomainAge struct{ days *int }

func (s *stubDomainAge) AgeDays(ctx context.Context, domain string) *int { return s.days }

type stubAI struct {
	judgment   AIJudgment
	err        error
	disabled   bool
	judgeCalls int
}

func (s *stubAI) Judge(ctx context.Context, sender, subject, body string) (AIJudgment, error) {
	s.judgeCalls++
	return s.judgment, s.err
}
func (s *stubAI) Enabled() bool { return !s.disabled }

// cleanEngine wires stubs describing a fully authenticated, benign email
func cleanEngine() *ScoringEngine {
	return NewScoringEngine(
		&stubDNS{mx: true, spf: true, dmarc: true},
		&stubHeaders{facts: HeaderFacts{
			DKIMPresent: true,
			DKIMDomain:  "example.com",
			AuthResults: map[string]AuthVerdict{"spf": VerdictPass, "dkim": VerdictPass},
		}},
		&stubURLs{},
		&stubText{},
		&stubDomainAge{},
		&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
		zap.NewNop(),
	)
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskLevel
	}{
		{0, RiskSafe},
		{15, RiskSafe},
		{16, RiskLow},
		{35, RiskLow},
		{36, RiskMedium},
		{60, RiskMedium},
		{61, RiskHigh},
		{100, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestScore_CleanEmail(t *testing.T) {
	engine := cleanEngine()

	result := engine.Score(context.Background(), EmailInput{
		Sender: "alice@example.com",
		Body:   "See you at the standup tomorrow.",
	})

	require.NotNil(t, result)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, RiskSafe, result.RiskLevel)
	assert.Empty(t, result.Summary)
	assert.Equal(t, "example.com", result.Signals.FromDomain)
	assert.NotEmpty(t, result.ScanID)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "Email appears legitimate, but always verify unexpected requests", result.Recommendations[0])
}

func TestScore_PhishingEmail(t *testing.T) {
	engine := NewScoringEngine(
		&stubDNS{},
		&stubHeaders{facts: HeaderFacts{
			ReplyTo:     "phisher@different.com",
			AuthResults: map[string]AuthVerdict{},
		}},
		&stubURLs{facts: []URLFact{
			{URL: "http://bit.ly/3xYzAb", Domain: "bit.ly", IsShortener: true},
		}},
		&stubText{flags: []string{FlagUrgency, FlagCredentialRequest}},
		&stubDomainAge{},
		&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
		zap.NewNop(),
	)

	result := engine.Score(context.Background(), EmailInput{
		Sender: "admin@suspicious-domain.com",
		Body:   "URGENT: verify your password now http://bit.ly/3xYzAb",
	})

	// 30+15+15+12+20+15+12+20 clamps to 100
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, RiskHigh, result.RiskLevel)

	require.Len(t, result.Summary, 4)
	assert.Equal(t, "Domain suspicious-domain.com has no mail server configured", result.Summary[0])
	assert.Equal(t, "Replies will go to a different address than the sender", result.Summary[1])
	assert.Equal(t, "Asks you to verify your password or login details", result.Summary[2])
	assert.Equal(t, "Sender domain lacks email authentication (SPF)", result.Summary[3])

	require.Len(t, result.Recommendations, 6)
	assert.Equal(t, "Do not click any links or download attachments", result.Recommendations[0])
	assert.Contains(t, result.Recommendations, "Don't click shortened links - they hide where they really go")
	assert.Contains(t, result.Recommendations, "Real companies never ask for your password in an email")

	assert.True(t, result.Signals.ReplyToMismatch)
	assert.False(t, result.Signals.MXPresent)
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewScoringEngine(
		&stubDNS{mx: true},
		&stubHeaders{facts: HeaderFacts{AuthResults: map[string]AuthVerdict{}}},
		&stubURLs{},
		&stubText{flags: []string{FlagThreats}},
		&stubDomainAge{},
		&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
		zap.NewNop(),
	)
	input := EmailInput{Sender: "bob@example.org", Body: "your account will be suspended"}

	first := engine.Score(context.Background(), input)
	second := engine.Score(context.Background(), input)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.NotEqual(t, first.ScanID, second.ScanID)
}

func TestScore_AIFailureDegradesToNeutral(t *testing.T) {
	engine := NewScoringEngine(
		&stubDNS{mx: true, spf: true, dmarc: true},
		&stubHeaders{facts: HeaderFacts{
			DKIMPresent: true,
			DKIMDomain:  "example.com",
			AuthResults: map[string]AuthVerdict{},
		}},
		&stubURLs{},
		&stubText{},
		&stubDomainAge{},
		&stubAI{err: errors.New("provider unavailable")},
		zap.NewNop(),
	)

	result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Signals.AIAnalysis.RiskScore)
	assert.Equal(t, 0.0, result.Signals.AIAnalysis.Confidence)
	assert.Contains(t, result.Signals.AIAnalysis.Reasoning, "AI analysis error: provider unavailable")
}

func TestScore_AIDisabledSkipsJudgment(t *testing.T) {
	ai := &stubAI{disabled: true}
	engine := NewScoringEngine(
		&stubDNS{mx: true, spf: true, dmarc: true},
		&stubHeaders{facts: HeaderFacts{
			DKIMPresent: true,
			DKIMDomain:  "example.com",
			AuthResults: map[string]AuthVerdict{},
		}},
		&stubURLs{},
		&stubText{},
		&stubDomainAge{},
		ai,
		zap.NewNop(),
	)

	result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})

	assert.Equal(t, 0, ai.judgeCalls)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "AI analysis not available", result.Signals.AIAnalysis.Reasoning)
}

func TestScore_AIHighRisk(t *testing.T) {
	tests := []struct {
		name           string
		judgment       AIJudgment
		expectFired    bool
		expectedReason string
	}{
		{
			name: "high score and confidence with flags",
			judgment: AIJudgment{
				RiskScore:  85,
				Confidence: 0.9,
				Flags:      []string{"credential_harvesting", "brand_impersonation", "urgency"},
			},
			expectFired:    true,
			expectedReason: "AI detected: credential_harvesting, brand_impersonation",
		},
		{
			name:           "high score and confidence without flags",
			judgment:       AIJudgment{RiskScore: 70, Confidence: 0.8},
			expectFired:    true,
			expectedReason: "AI detected sophisticated phishing patterns",
		},
		{
			name:        "score at threshold does not fire",
			judgment:    AIJudgment{RiskScore: 60, Confidence: 0.9},
			expectFired: false,
		},
		{
			name:        "confidence at threshold does not fire",
			judgment:    AIJudgment{RiskScore: 90, Confidence: 0.7},
			expectFired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewScoringEngine(
				&stubDNS{mx: true, spf: true, dmarc: true},
				&stubHeaders{facts: HeaderFacts{
					DKIMPresent: true,
					DKIMDomain:  "example.com",
					AuthResults: map[string]AuthVerdict{},
				}},
				&stubURLs{},
				&stubText{},
				&stubDomainAge{},
				&stubAI{judgment: tt.judgment},
				zap.NewNop(),
			)

			result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})

			if tt.expectFired {
				assert.Equal(t, WeightFor(KindAIHighRisk), result.Score)
				require.NotEmpty(t, result.Summary)
				assert.Equal(t, tt.expectedReason, result.Summary[0])
			} else {
				assert.Equal(t, 0, result.Score)
			}
		})
	}
}

func TestScore_YoungDomain(t *testing.T) {
	age := func(d int) *int { return &d }

	tests := []struct {
		name      string
		days      *int
		expectAdd int
	}{
		{"unknown age is neutral", nil, 0},
		{"young domain fires", age(5), 20},
		{"boundary day 29 fires", age(29), 20},
		{"boundary day 30 does not fire", age(30), 0},
		{"established domain does not fire", age(4000), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewScoringEngine(
				&stubDNS{mx: true, spf: true, dmarc: true},
				&stubHeaders{facts: HeaderFacts{
					DKIMPresent: true,
					DKIMDomain:  "example.com",
					AuthResults: map[string]AuthVerdict{},
				}},
				&stubURLs{},
				&stubText{},
				&stubDomainAge{days: tt.days},
				&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
				zap.NewNop(),
			)

			result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})
			assert.Equal(t, tt.expectAdd, result.Score)
		})
	}
}

func TestScore_AuthFailReason(t *testing.T) {
	engine := NewScoringEngine(
		&stubDNS{mx: true, spf: true, dmarc: true},
		&stubHeaders{facts: HeaderFacts{
			DKIMPresent: true,
			DKIMDomain:  "example.com",
			AuthResults: map[string]AuthVerdict{
				"dkim":  VerdictFail,
				"spf":   VerdictFail,
				"dmarc": VerdictPass,
			},
		}},
		&stubURLs{},
		&stubText{},
		&stubDomainAge{},
		&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
		zap.NewNop(),
	)

	result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})

	assert.Equal(t, 30, result.Score)
	require.NotEmpty(t, result.Summary)
	assert.Equal(t, "Email failed security checks (DKIM, SPF)", result.Summary[0])
}

func TestScore_DKIMDomainMismatch(t *testing.T) {
	engine := NewScoringEngine(
		&stubDNS{mx: true, spf: true, dmarc: true},
		&stubHeaders{facts: HeaderFacts{
			DKIMPresent: true,
			DKIMDomain:  "mailer.example.net",
			AuthResults: map[string]AuthVerdict{},
		}},
		&stubURLs{},
		&stubText{},
		&stubDomainAge{},
		&stubAI{judgment: NeutralAIJudgment("AI analysis not available")},
		zap.NewNop(),
	)

	result := engine.Score(context.Background(), EmailInput{Sender: "alice@example.com"})

	assert.Equal(t, 25, result.Score)
	require.NotEmpty(t, result.Summary)
	assert.Equal(t, "Email signature doesn't match sender domain", result.Summary[0])
}

func TestWeightFor(t *testing.T) {
	expected := map[SignalKind]int{
		KindNoMX:                  30,
		KindNoSPF:                 15,
		KindNoDMARC:               15,
		KindNoDKIM:                12,
		KindDKIMDomainMismatch:    25,
		KindReplyToMismatch:       20,
		KindReturnPathMismatch:    12,
		KindAuthFail:              30,
		KindURLShortener:          15,
		KindURLPunycode:           18,
		KindURLLookalike:          25,
		KindTextUrgency:           12,
		KindTextThreats:           15,
		KindTextCredentialRequest: 20,
		KindTextPaymentRequest:    18,
		KindYoungDomain:           20,
		KindAIHighRisk:            35,
	}

	assert.Len(t, checklist, len(expected))
	for kind, weight := range expected {
		assert.Equal(t, weight, WeightFor(kind), string(kind))
	}
	assert.Equal(t, 0, WeightFor(SignalKind("unknown")))
}
