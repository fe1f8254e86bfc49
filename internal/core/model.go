package core

import (
	"time"
)

// EmailInput is the immutable input to one scoring pass. The caller is
// responsible for enforcing size limits before handing it to the engine.
type EmailInput struct {
	Sender  string
	Headers string
	Body    string
}

// RiskLevel is the four-tier classification derived from the final score
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevelForScore maps a clamped score onto a risk level. Boundaries are
// inclusive on the lower tier: 15 is still safe, 35 still low, 60 still medium.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score <= 15:
		return RiskSafe
	case score <= 35:
		return RiskLow
	case score <= 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// URLFact describes one unique URL found in the email body
type URLFact struct {
	URL         string `json:"url"`
	Domain      string `json:"domain"`
	IsShortener bool   `json:"is_shortener"`
	IsPunycode  bool   `json:"is_punycode"`
	IsLookalike bool   `json:"is_lookalike"`
	// Unicode holds the decoded form of a punycode domain, when it decodes
	Unicode string `json:"unicode,omitempty"`
}

// AuthVerdict is a per-mechanism result parsed from Authentication-Results
type AuthVerdict string

const (
	VerdictPass AuthVerdict = "pass"
	VerdictFail AuthVerdict = "fail"
	VerdictNone AuthVerdict = "none"
)

// AIJudgment is the structured output of the AI analysis capability.
// A disabled or failed analysis yields the neutral judgment, never an error.
type AIJudgment struct {
	RiskScore  int      `json:"ai_risk_score"`
	Confidence float64  `json:"ai_confidence"`
	Flags      []string `json:"ai_flags"`
	Reasoning  string   `json:"ai_reasoning"`
	Report     string   `json:"ai_report,omitempty"`
}

// NeutralAIJudgment returns the zero-risk judgment used when the AI
// capability is unavailable or its call failed
func NeutralAIJudgment(reasoning string) AIJudgment {
	return AIJudgment{
		RiskScore:  0,
		Confidence: 0.0,
		Flags:      []string{},
		Reasoning:  reasoning,
	}
}

// DomainPosture bundles the DNS authentication posture of one domain
type DomainPosture struct {
	Domain       string
	MXPresent    bool
	SPFPresent   bool
	SPFRecord    string
	DMARCPresent bool
	DMARCRecord  string
	CheckedAt    time.Time
}

// SignalBag collects every fact gathered during one scoring pass. One bag
// belongs to exactly one pass; the gather goroutines each write disjoint
// fields so no locking is needed around it.
type SignalBag struct {
	FromDomain         string                 `json:"from_domain"`
	MXPresent          bool                   `json:"mx_present"`
	SPFPresent         bool                   `json:"spf_present"`
	SPFRecord          string                 `json:"spf_record,omitempty"`
	DMARCPresent       bool                   `json:"dmarc_present"`
	DMARCRecord        string                 `json:"dmarc_record,omitempty"`
	DKIMPresent        bool                   `json:"dkim_present"`
	DKIMDomain         string                 `json:"dkim_d_domain,omitempty"`
	ReplyToMismatch    bool                   `json:"reply_to_mismatch"`
	ReturnPathMismatch bool                   `json:"return_path_mismatch"`
	AuthResults        map[string]AuthVerdict `json:"auth_results"`
	DomainAgeDays      *int                   `json:"domain_age_days"`
	URLs               []URLFact              `json:"urls"`
	TextFlags          []string               `json:"text_flags"`
	AIAnalysis         AIJudgment             `json:"ai_analysis"`
}

// HasTextFlag reports whether the text classifier set the given flag
func (s *SignalBag) HasTextFlag(flag string) bool {
	for _, f := range s.TextFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// ScoreResult is the complete outcome of one scoring pass. It is created
// once, returned to the caller and never mutated afterwards.
type ScoreResult struct {
	ScanID          string     `json:"scan_id"`
	Score           int        `json:"score"`
	RiskLevel       RiskLevel  `json:"risk_level"`
	Summary         []string   `json:"summary"`
	Signals         *SignalBag `json:"signals"`
	Recommendations []string   `json:"recommendations"`
	AnalyzedAt      time.Time  `json:"analyzed_at"`
}
