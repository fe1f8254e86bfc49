package aiformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("a@example.com", "Invoice", "pay now")

	assert.Contains(t, prompt, "Sender: a@example.com")
	assert.Contains(t, prompt, "Subject: Invoice")
	assert.Contains(t, prompt, "Body: pay now")
	assert.Contains(t, prompt, "RISK_SCORE:")
	assert.Contains(t, prompt, ReportMarker)
}

func TestParse_WellFormedResponse(t *testing.T) {
	response := `RISK_SCORE: 85
FLAGS: credential_harvesting, urgency
CONFIDENCE: 0.9
REASONING: Asks for login details under time pressure`

	judgment := Parse(response)

	assert.Equal(t, 85, judgment.RiskScore)
	assert.Equal(t, []string{"credential_harvesting", "urgency"}, judgment.Flags)
	assert.Equal(t, 0.9, judgment.Confidence)
	assert.Equal(t, "Asks for login details under time pressure", judgment.Reasoning)
	assert.Empty(t, judgment.Report)
}

func TestParse_FlagsNone(t *testing.T) {
	response := "RISK_SCORE: 5\nFLAGS: none\nCONFIDENCE: 0.8\nREASONING: Looks routine"

	judgment := Parse(response)

	assert.Equal(t, 5, judgment.RiskScore)
	assert.Empty(t, judgment.Flags)
	assert.Equal(t, 0.8, judgment.Confidence)
}

func TestParse_Clamping(t *testing.T) {
	tests := []struct {
		name               string
		response           string
		expectedScore      int
		expectedConfidence float64
	}{
		{"score above range", "RISK_SCORE: 150\nCONFIDENCE: 0.5", 100, 0.5},
		{"score below range", "RISK_SCORE: -10\nCONFIDENCE: 0.5", 0, 0.5},
		{"confidence above range", "RISK_SCORE: 50\nCONFIDENCE: 1.7", 50, 1.0},
		{"confidence below range", "RISK_SCORE: 50\nCONFIDENCE: -0.2", 50, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judgment := Parse(tt.response)
			assert.Equal(t, tt.expectedScore, judgment.RiskScore)
			assert.Equal(t, tt.expectedConfidence, judgment.Confidence)
		})
	}
}

func TestParse_PartialResponse(t *testing.T) {
	judgment := Parse("RISK_SCORE: 40\nsome chatter the model added")

	assert.Equal(t, 40, judgment.RiskScore)
	assert.Equal(t, 0.0, judgment.Confidence)
	assert.Empty(t, judgment.Flags)
	assert.Empty(t, judgment.Reasoning)
}

func TestParse_GarbageResponse(t *testing.T) {
	raw := "I am sorry, I cannot help with that request."

	judgment := Parse(raw)

	assert.Equal(t, 0, judgment.RiskScore)
	assert.Equal(t, 0.0, judgment.Confidence)
	assert.Equal(t, raw, judgment.Reasoning)
}

func TestParse_GarbageResponseExcerptIsTruncated(t *testing.T) {
	raw := strings.Repeat("x", 500)

	judgment := Parse(raw)

	assert.Len(t, judgment.Reasoning, 200)
}

func TestParse_DetailedReport(t *testing.T) {
	response := `RISK_SCORE: 70
FLAGS: impersonation
CONFIDENCE: 0.85
REASONING: Mimics a bank notification
DETAILED_REPORT:
The message copies the layout of a legitimate bank alert.
RISK_SCORE: 999 appearing here must not override the parsed score.`

	judgment := Parse(response)

	assert.Equal(t, 70, judgment.RiskScore)
	assert.Equal(t, 0.85, judgment.Confidence)
	assert.Contains(t, judgment.Report, "copies the layout")
	assert.Contains(t, judgment.Report, "RISK_SCORE: 999")
}

func TestParse_ReportOnSameLine(t *testing.T) {
	response := "RISK_SCORE: 20\nDETAILED_REPORT: short note"

	judgment := Parse(response)

	assert.Equal(t, 20, judgment.RiskScore)
	assert.Equal(t, "short note", judgment.Report)
}

func TestParse_NonNumericValuesIgnored(t *testing.T) {
	judgment := Parse("RISK_SCORE: high\nCONFIDENCE: very\nREASONING: ok")

	assert.Equal(t, 0, judgment.RiskScore)
	assert.Equal(t, 0.0, judgment.Confidence)
	assert.Equal(t, "ok", judgment.Reasoning)
}
