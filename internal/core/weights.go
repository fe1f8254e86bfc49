package core

import (
	"fmt"
	"strings"
)

// SignalKind identifies one weighted condition in the scoring checklist
type SignalKind string

const (
	KindNoMX                  SignalKind = "no_mx"
	KindNoSPF                 SignalKind = "no_spf"
	KindNoDMARC               SignalKind = "no_dmarc"
	KindNoDKIM                SignalKind = "no_dkim"
	KindDKIMDomainMismatch    SignalKind = "dkim_domain_mismatch"
	KindReplyToMismatch       SignalKind = "reply_to_mismatch"
	KindReturnPathMismatch    SignalKind = "return_path_mismatch"
	KindAuthFail              SignalKind = "auth_fail"
	KindURLShortener          SignalKind = "url_shortener"
	KindURLPunycode           SignalKind = "url_punycode"
	KindURLLookalike          SignalKind = "url_lookalike"
	KindTextUrgency           SignalKind = "text_urgency"
	KindTextThreats           SignalKind = "text_threats"
	KindTextCredentialRequest SignalKind = "text_credential_request"
	KindTextPaymentRequest    SignalKind = "text_payment_request"
	KindYoungDomain           SignalKind = "young_domain"
	KindAIHighRisk            SignalKind = "ai_high_risk"
)

// Text classification flags produced by the text classifier
const (
	FlagUrgency           = "urgency"
	FlagThreats           = "threats"
	FlagCredentialRequest = "credential_request"
	FlagPaymentRequest    = "payment_request"
)

// scoreCheck is one row of the weighted checklist. Rows are evaluated in
// order; a row whose predicate holds contributes its weight and a
// human-readable reason. URL rows fire at most once per pass.
type scoreCheck struct {
	kind    SignalKind
	weight  int
	applies func(s *SignalBag) (bool, string)
}

// checklist is the fixed, ordered evidence table. Evaluation order doubles
// as the tie-breaker when reasons are ranked by weight.
var checklist = []scoreCheck{
	{KindNoMX, 30, func(s *SignalBag) (bool, string) {
		return !s.MXPresent, fmt.Sprintf("Domain %s has no mail server configured", s.FromDomain)
	}},
	{KindNoSPF, 15, func(s *SignalBag) (bool, string) {
		return !s.SPFPresent, "Sender domain lacks email authentication (SPF)"
	}},
	{KindNoDMARC, 15, func(s *SignalBag) (bool, string) {
		return !s.DMARCPresent, "Domain has no anti-spoofing policy (DMARC)"
	}},
	{KindNoDKIM, 12, func(s *SignalBag) (bool, string) {
		return !s.DKIMPresent, "Email is not digitally signed"
	}},
	// Only evaluated when a DKIM signature is present, so no_dkim and the
	// mismatch row are mutually exclusive.
	{KindDKIMDomainMismatch, 25, func(s *SignalBag) (bool, string) {
		fired := s.DKIMPresent && s.DKIMDomain != "" && s.DKIMDomain != s.FromDomain
		return fired, "Email signature doesn't match sender domain"
	}},
	{KindReplyToMismatch, 20, func(s *SignalBag) (bool, string) {
		return s.ReplyToMismatch, "Replies will go to a different address than the sender"
	}},
	{KindReturnPathMismatch, 12, func(s *SignalBag) (bool, string) {
		return s.ReturnPathMismatch, "Email bounce address doesn't match sender"
	}},
	{KindAuthFail, 30, func(s *SignalBag) (bool, string) {
		var failed []string
		for _, mech := range []string{"dkim", "spf", "dmarc"} {
			if s.AuthResults[mech] == VerdictFail {
				failed = append(failed, strings.ToUpper(mech))
			}
		}
		if len(failed) == 0 {
			return false, ""
		}
		return true, fmt.Sprintf("Email failed security checks (%s)", strings.Join(failed, ", "))
	}},
	{KindURLShortener, 15, func(s *SignalBag) (bool, string) {
		for _, u := range s.URLs {
			if u.IsShortener {
				return true, "Contains shortened link that hides the real destination"
			}
		}
		return false, ""
	}},
	{KindURLPunycode, 18, func(s *SignalBag) (bool, string) {
		for _, u := range s.URLs {
			if u.IsPunycode {
				return true, fmt.Sprintf("Contains suspicious international domain: %s", u.Domain)
			}
		}
		return false, ""
	}},
	{KindURLLookalike, 25, func(s *SignalBag) (bool, string) {
		for _, u := range s.URLs {
			if u.IsLookalike {
				return true, fmt.Sprintf("Contains fake website that mimics a real brand: %s", u.Domain)
			}
		}
		return false, ""
	}},
	{KindTextUrgency, 12, func(s *SignalBag) (bool, string) {
		return s.HasTextFlag(FlagUrgency), "Uses pressure tactics to make you act quickly"
	}},
	{KindTextThreats, 15, func(s *SignalBag) (bool, string) {
		return s.HasTextFlag(FlagThreats), "Threatens account suspension or legal action"
	}},
	{KindTextCredentialRequest, 20, func(s *SignalBag) (bool, string) {
		return s.HasTextFlag(FlagCredentialRequest), "Asks you to verify your password or login details"
	}},
	{KindTextPaymentRequest, 18, func(s *SignalBag) (bool, string) {
		return s.HasTextFlag(FlagPaymentRequest), "Requests payment or financial information"
	}},
	{KindYoungDomain, 20, func(s *SignalBag) (bool, string) {
		fired := s.DomainAgeDays != nil && *s.DomainAgeDays < 30
		if !fired {
			return false, ""
		}
		return true, fmt.Sprintf("Sender's domain was just created %d days ago", *s.DomainAgeDays)
	}},
	{KindAIHighRisk, 35, func(s *SignalBag) (bool, string) {
		if s.AIAnalysis.RiskScore <= 60 || s.AIAnalysis.Confidence <= 0.7 {
			return false, ""
		}
		if len(s.AIAnalysis.Flags) > 0 {
			flags := s.AIAnalysis.Flags
			if len(flags) > 2 {
				flags = flags[:2]
			}
			return true, fmt.Sprintf("AI detected: %s", strings.Join(flags, ", "))
		}
		return true, "AI detected sophisticated phishing patterns"
	}},
}

// WeightFor returns the point value of a signal kind, or 0 for unknown kinds
func WeightFor(kind SignalKind) int {
	for _, check := range checklist {
		if check.kind == kind {
			return check.weight
		}
	}
	return 0
}
