package config

import (
	"time"
)

// AIConfig selects the AI judgment backend
type AIConfig struct {
	Provider string
}

// DNSConfig configures the resolver used for authentication posture checks
type DNSConfig struct {
	Server  string
	Timeout time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// AnalysisConfig carries the analyzer lists; empty slices mean the
// built-in defaults
type AnalysisConfig struct {
	Shorteners         []string
	Brands             []string
	WhitelistedDomains []string
}

// GetAI returns the AI provider configuration
func (c *Config) GetAI() AIConfig {
	return AIConfig{
		Provider: c.GetString("ai.provider"),
	}
}

// GetDNS returns the DNS resolver configuration
func (c *Config) GetDNS() DNSConfig {
	timeout, err := c.GetDuration("dns.timeout")
	if err != nil {
		timeout = 5 * time.Second
	}
	return DNSConfig{
		Server:  c.GetString("dns.server"),
		Timeout: timeout,
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetAnalysis returns the analyzer list configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Shorteners:         c.GetStringSlice("analysis.shorteners"),
		Brands:             c.GetStringSlice("analysis.brands"),
		WhitelistedDomains: c.GetStringSlice("analysis.whitelisted_domains"),
	}
}
