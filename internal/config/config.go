// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-coach/internal/llm"
)

// Turn error policies
const (
	OnTurnErrorAbort = "abort"
	OnTurnErrorSkip  = "skip"
)

// Environment variables consulted when a value is not configured
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvDatabaseURL  = "DATABASE_URL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Model access
	Provider    string            `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini anthropic"`
	Models      map[string]string `json:"models,omitempty"`      // Tier (lite, standard, advanced) -> model name
	BaseURL     string            `json:"base_url,omitempty" validate:"omitempty,url"`
	APIKey      string            `json:"api_key,omitempty"`
	Temperature *float64          `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"` // nil uses the default; 0 is honored

	// Session behavior
	MemoryThreshold int    `json:"memory_threshold,omitempty" validate:"gte=0"`
	MemoryRetain    int    `json:"memory_retain,omitempty" validate:"gte=0"`
	MaxAttempts     int    `json:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	StopWord        string `json:"stop_word,omitempty"`
	OnTurnError     string `json:"on_turn_error,omitempty" validate:"omitempty,oneof=abort skip"`

	// Knowledge base
	FactLimit      int    `json:"fact_limit,omitempty" validate:"gte=0,lte=20"`
	MinQueryLength int    `json:"min_query_length,omitempty" validate:"gte=0"`
	KnowledgePath  string `json:"knowledge_path,omitempty"` // Empty keeps the index in memory

	// Persistence
	LogDir      string `json:"log_dir,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

const anthropicMaxTemperature = 1.0

func ptr[T any](v T) *T { return &v }

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Provider:        string(llm.ProviderOpenAI),
		Temperature:     ptr(llm.DefaultTemperature),
		MemoryThreshold: 6,
		MemoryRetain:    2,
		MaxAttempts:     2,
		StopWord:        "STOP",
		OnTurnError:     OnTurnErrorAbort,
		FactLimit:       2,
		MinQueryLength:  5,
		LogDir:          "interview",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %s", describeValidation(err))
	}

	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	// Consolidation must shrink the history
	if c.MemoryThreshold > 0 && c.MemoryRetain >= c.MemoryThreshold {
		return fmt.Errorf("config error: 'memory_retain' (%d) must be smaller than 'memory_threshold' (%d)",
			c.MemoryRetain, c.MemoryThreshold)
	}

	// Anthropic rejects temperatures above 1
	if llm.Provider(c.Provider) == llm.ProviderAnthropic && c.Temperature != nil && *c.Temperature > anthropicMaxTemperature {
		return fmt.Errorf("config error: 'temperature' (%g) must be at most %g for provider anthropic",
			*c.Temperature, anthropicMaxTemperature)
	}

	if strings.ContainsAny(c.StopWord, " \t\n") {
		return fmt.Errorf("config error: 'stop_word' must be a single token")
	}

	return nil
}

// describeValidation returns the first validator failure as "field - tag"
func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("'%s' failed %s", ve.Field(), ve.Tag())
	}
	return err.Error()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.StopWord == "" {
		result.StopWord = defaults.StopWord
	}
	if result.OnTurnError == "" {
		result.OnTurnError = defaults.OnTurnError
	}
	if result.KnowledgePath == "" {
		result.KnowledgePath = defaults.KnowledgePath
	}
	if result.LogDir == "" {
		result.LogDir = defaults.LogDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Pointer fields: use default if unset
	if result.Temperature == nil && defaults.Temperature != nil {
		result.Temperature = ptr(*defaults.Temperature)
	}

	// Numeric fields: use default if zero
	if result.MemoryThreshold == 0 {
		result.MemoryThreshold = defaults.MemoryThreshold
	}
	if result.MemoryRetain == 0 {
		result.MemoryRetain = defaults.MemoryRetain
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.FactLimit == 0 {
		result.FactLimit = defaults.FactLimit
	}
	if result.MinQueryLength == 0 {
		result.MinQueryLength = defaults.MinQueryLength
	}

	// Map fields: defaults only fill tiers the file leaves out
	if len(defaults.Models) > 0 {
		models := make(map[string]string, len(defaults.Models)+len(result.Models))
		for tier, model := range defaults.Models {
			models[tier] = model
		}
		for tier, model := range result.Models {
			models[tier] = model
		}
		result.Models = models
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills the API key and database URL from the environment when unset
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(APIKeyEnv(llm.Provider(c.Provider)))
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
}

// APIKeyEnv names the environment variable holding the key for a provider
func APIKeyEnv(provider llm.Provider) string {
	switch provider {
	case llm.ProviderGemini:
		return EnvGeminiKey
	case llm.ProviderAnthropic:
		return EnvAnthropicKey
	default:
		return EnvOpenAIKey
	}
}

// LLMConfig builds the model configuration for the configured provider
func (c *Config) LLMConfig() (*llm.Config, error) {
	cfg, err := llm.ConfigFor(llm.Provider(c.Provider))
	if err != nil {
		return nil, err
	}
	for tier, model := range c.Models {
		cfg = cfg.WithModel(llm.ModelTier(tier), model)
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Temperature != nil {
		cfg.Temperature = *c.Temperature
	}
	return cfg, nil
}
