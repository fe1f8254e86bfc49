// Package gemini implements the AI judgment capability on Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mailrisk/phish-scorer/internal/aiformat"
	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/utils"
)

// Client is an implementation of the AIAnalyzer interface using Google
// Gemini
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new Gemini client
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Enabled reports that a backend is configured
func (c *Client) Enabled() bool {
	return true
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Judge sends the email excerpt to Gemini and parses the structured
// response into an AIJudgment
func (c *Client) Judge(ctx context.Context, sender, subject, body string) (core.AIJudgment, error) {
	excerpt := c.textProcessor.ProcessText(body, c.maxBodySize)
	prompt := aiformat.BuildPrompt(sender, subject, excerpt)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return core.AIJudgment{}, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return core.AIJudgment{}, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	judgment := aiformat.Parse(responseText)
	c.logger.Debug("Gemini analysis complete",
		zap.String("model", c.modelName),
		zap.Int("ai_risk_score", judgment.RiskScore),
		zap.Float64("ai_confidence", judgment.Confidence))

	return judgment, nil
}
