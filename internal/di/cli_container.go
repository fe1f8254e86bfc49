package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/adapters/frontend"
	"github.com/mailrisk/phish-scorer/internal/config"
	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/logging"
	"github.com/mailrisk/phish-scorer/internal/ports"
	"github.com/mailrisk/phish-scorer/internal/whitelist"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// AI provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// DNS flags
	DNSServer  string
	DNSTimeout string

	// Cache flags
	CacheType string

	// Analysis flags
	Whitelist string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	JSONOut    bool
	FailHigh   bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// AI provider flags
	flag.StringVar(&flags.Provider, "provider", "disabled", "AI provider (bedrock, gemini, openai, disabled)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for AI response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for AI generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for AI generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 2000, "Maximum email body size to send to the AI provider")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-2.0-flash-exp", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// DNS flags
	flag.StringVar(&flags.DNSServer, "dns-server", "8.8.8.8:53", "DNS server for MX/SPF/DMARC lookups")
	flag.StringVar(&flags.DNSTimeout, "dns-timeout", "5s", "Timeout for DNS queries")

	// Cache flags
	flag.StringVar(&flags.CacheType, "cache", "disabled", "DNS posture cache (memory, sqlite, mysql, disabled)")

	// Analysis flags
	flag.StringVar(&flags.Whitelist, "whitelist", "", "Comma-separated list of whitelisted sender domains")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.BoolVar(&flags.JSONOut, "json", false, "Print the scan result as JSON")
	flag.BoolVar(&flags.FailHigh, "fail-high", false, "Exit with status 2 when the risk level is high")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := registerComponents(container); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(
		engine *core.ScoringEngine,
		checker *whitelist.Checker,
		logger *zap.Logger,
		flags *CLIFlags,
		cfg *config.Config,
	) ports.EmailFrontend {
		jsonOut := flags.JSONOut || cfg.GetBool("output.json")
		return frontend.NewCLIFrontend(engine, checker, logger, flags.Verbose, jsonOut)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set AI provider
	v.Set("ai.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	}

	// Set DNS resolver configuration
	v.Set("dns.server", flags.DNSServer)
	v.Set("dns.timeout", flags.DNSTimeout)

	// Set posture cache configuration
	v.Set("cache.type", flags.CacheType)

	// Set domain age provider
	v.Set("domain_age.provider", "null")

	// Set whitelisted domains
	if flags.Whitelist != "" {
		domains := strings.Split(flags.Whitelist, ",")
		for i := range domains {
			domains[i] = strings.TrimSpace(domains[i])
		}
		v.Set("analysis.whitelisted_domains", domains)
	}

	// Set output format
	v.Set("output.json", flags.JSONOut)

	return config.NewFromViper(v)
}
