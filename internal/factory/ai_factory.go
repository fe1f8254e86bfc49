package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/adapters/bedrock"
	"github.com/mailrisk/phish-scorer/internal/adapters/gemini"
	"github.com/mailrisk/phish-scorer/internal/adapters/openai"
	"github.com/mailrisk/phish-scorer/internal/config"
	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/utils"
)

// AIFactory creates AI analyzers
type AIFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAIFactory creates a new AI analyzer factory
func NewAIFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AIFactory {
	return &AIFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAnalyzer creates an AI analyzer based on the configuration. A
// provider without credentials degrades to the disabled analyzer rather
// than failing startup.
func (f *AIFactory) CreateAnalyzer() (core.AIAnalyzer, error) {
	aiCfg := f.cfg.GetAI()

	switch aiCfg.Provider {
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		if geminiCfg.APIKey == "" {
			f.logger.Info("Gemini API key not configured, AI analysis disabled")
			return NewDisabledAnalyzer(), nil
		}
		return gemini.NewClient(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			geminiCfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		)

	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		if openaiCfg.APIKey == "" {
			f.logger.Info("OpenAI API key not configured, AI analysis disabled")
			return NewDisabledAnalyzer(), nil
		}
		return openai.NewClient(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			openaiCfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		), nil

	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(bedrockCfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewClient(
			bedrockruntime.NewFromConfig(awsCfg),
			bedrockCfg.ModelID,
			bedrockCfg.MaxTokens,
			bedrockCfg.Temperature,
			bedrockCfg.TopP,
			bedrockCfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		), nil

	case "disabled", "":
		return NewDisabledAnalyzer(), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", aiCfg.Provider)
	}
}

// DisabledAnalyzer is the AIAnalyzer used when no backend is configured.
// It returns the neutral judgment immediately.
type DisabledAnalyzer struct{}

// NewDisabledAnalyzer creates the no-op analyzer
func NewDisabledAnalyzer() *DisabledAnalyzer {
	return &DisabledAnalyzer{}
}

// Judge returns the neutral judgment without any external call
func (a *DisabledAnalyzer) Judge(ctx context.Context, sender, subject, body string) (core.AIJudgment, error) {
	return core.NeutralAIJudgment("AI analysis not available"), nil
}

// Enabled reports that no backend is configured
func (a *DisabledAnalyzer) Enabled() bool {
	return false
}
