// Package aiformat defines the prompt and the line-oriented response
// contract shared by every AI analysis backend.
package aiformat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// ReportMarker introduces the optional free-text narrative section after
// the structured key lines
const ReportMarker = "DETAILED_REPORT:"

const promptFormat = `Analyze this email for phishing and impersonation risks. Provide a structured assessment.

Sender: %s
Subject: %s
Body: %s

Evaluate the following aspects:
1. Social engineering tactics (urgency, fear, authority)
2. Credential harvesting attempts
3. Financial fraud indicators
4. Impersonation of legitimate entities
5. Suspicious language patterns
6. Inconsistencies between sender and content

Respond in this exact format:
RISK_SCORE: [0-100]
FLAGS: [comma-separated list of specific issues found, or "none"]
CONFIDENCE: [0.0-1.0]
REASONING: [brief explanation of the assessment]

You may add a longer narrative after a line containing exactly "` + ReportMarker + `".

Be concise and specific.`

// BuildPrompt renders the analysis prompt. The body is expected to be
// pre-truncated by the caller.
func BuildPrompt(sender, subject, body string) string {
	return fmt.Sprintf(promptFormat, sender, subject, body)
}

// Parse reads a backend response in the KEY: value line format into an
// AIJudgment. Unrecognized fields keep their defaults; a response with no
// recognized key at all yields the neutral judgment carrying a truncated
// excerpt of the raw text for diagnosis. Score and confidence are clamped
// post-parse.
func Parse(responseText string) core.AIJudgment {
	judgment := core.NeutralAIJudgment("")
	recognized := false

	lines := strings.Split(strings.TrimSpace(responseText), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "RISK_SCORE:"):
			if score, err := strconv.Atoi(valueOf(line)); err == nil {
				judgment.RiskScore = score
				recognized = true
			}

		case strings.HasPrefix(line, "FLAGS:"):
			flagsStr := valueOf(line)
			recognized = true
			if !strings.EqualFold(flagsStr, "none") {
				for _, f := range strings.Split(flagsStr, ",") {
					if f = strings.TrimSpace(f); f != "" {
						judgment.Flags = append(judgment.Flags, f)
					}
				}
			}

		case strings.HasPrefix(line, "CONFIDENCE:"):
			if conf, err := strconv.ParseFloat(valueOf(line), 64); err == nil {
				judgment.Confidence = conf
				recognized = true
			}

		case strings.HasPrefix(line, "REASONING:"):
			judgment.Reasoning = valueOf(line)
			recognized = true

		case line == ReportMarker || strings.HasPrefix(line, ReportMarker):
			report := strings.TrimSpace(strings.TrimPrefix(line, ReportMarker))
			if rest := strings.TrimSpace(strings.Join(lines[i+1:], "\n")); rest != "" {
				if report != "" {
					report += "\n"
				}
				report += rest
			}
			judgment.Report = report
			judgment.RiskScore = clampInt(judgment.RiskScore, 0, 100)
			judgment.Confidence = clampFloat(judgment.Confidence, 0.0, 1.0)
			return judgment
		}
	}

	if !recognized {
		excerpt := responseText
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return core.NeutralAIJudgment(excerpt)
	}

	judgment.RiskScore = clampInt(judgment.RiskScore, 0, 100)
	judgment.Confidence = clampFloat(judgment.Confidence, 0.0, 1.0)
	return judgment
}

func valueOf(line string) string {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
