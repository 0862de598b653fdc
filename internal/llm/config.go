// Package llm provides centralized LLM configuration and client abstractions.
// Agents talk to a Client by model tier; the provider behind it is chosen by configuration.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: message analysis, summarization
	TierLite ModelTier = "lite"
	// TierStandard is for dialogue generation and judging
	TierStandard ModelTier = "standard"
	// TierAdvanced is for strategy and the final hiring decision
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI covers OpenAI and any OpenAI-compatible endpoint (set BaseURL)
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// DefaultTemperature keeps interviewer replies varied without drifting off-instruction
const DefaultTemperature = 0.7

// DefaultMaxTokens bounds a single completion
const DefaultMaxTokens = 2048

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
}

// DefaultConfig returns the default configuration (OpenAI-compatible)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-haiku-4-5",
			TierStandard: "claude-haiku-4-5",
			TierAdvanced: "claude-sonnet-4-5",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ConfigFor returns the default configuration for a provider
func ConfigFor(provider Provider) (*Config, error) {
	switch provider {
	case ProviderOpenAI, "":
		return DefaultOpenAIConfig(), nil
	case ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderAnthropic:
		return DefaultAnthropicConfig(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
