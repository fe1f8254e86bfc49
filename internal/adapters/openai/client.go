// Package openai implements the AI judgment capability on the OpenAI chat
// completion API.
package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/aiformat"
	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/utils"
)

// Client is an implementation of the AIAnalyzer interface using OpenAI
type Client struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new OpenAI client
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Enabled reports that a backend is configured
func (c *Client) Enabled() bool {
	return true
}

// Judge sends the email excerpt to OpenAI and parses the structured
// response into an AIJudgment
func (c *Client) Judge(ctx context.Context, sender, subject, body string) (core.AIJudgment, error) {
	excerpt := c.textProcessor.ProcessText(body, c.maxBodySize)
	prompt := aiformat.BuildPrompt(sender, subject, excerpt)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email security analyst. Follow the requested response format exactly.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.AIJudgment{}, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return core.AIJudgment{}, fmt.Errorf("empty response from OpenAI")
	}

	judgment := aiformat.Parse(resp.Choices[0].Message.Content)
	c.logger.Debug("OpenAI analysis complete",
		zap.String("model", c.modelName),
		zap.Int("ai_risk_score", judgment.RiskScore),
		zap.Float64("ai_confidence", judgment.Confidence))

	return judgment, nil
}
