package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
)

// sessionFlags are shared by the commands that run interviews
type sessionFlags struct {
	provider        string
	model           string
	baseURL         string
	apiKey          string
	temperature     float64
	memoryThreshold int
	maxAttempts     int
	stopWord        string
	onTurnError     string
	factLimit       int
	knowledgePath   string
	logDir          string
	databaseURL     string
}

func addSessionFlags(cmd *cobra.Command, f *sessionFlags) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: openai, gemini or anthropic")
	cmd.Flags().StringVar(&f.model, "model", "", "Model used for every tier (overrides config models)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Base URL of an OpenAI-compatible endpoint")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (defaults to the provider's env var)")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().IntVar(&f.memoryThreshold, "memory-threshold", 0, "History length that triggers consolidation")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "Generation attempts per turn before the last reply is accepted")
	cmd.Flags().StringVar(&f.stopWord, "stop-word", "", "Candidate input that ends the interview")
	cmd.Flags().StringVar(&f.onTurnError, "on-turn-error", "", "What a failed turn does: abort or skip")
	cmd.Flags().IntVar(&f.factLimit, "fact-limit", 0, "Knowledge snippets per fact check")
	cmd.Flags().StringVar(&f.knowledgePath, "knowledge-path", "", "On-disk knowledge index (empty keeps it in memory)")
	cmd.Flags().StringVar(&f.logDir, "log-dir", "", "Directory for session logs")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

// apply copies explicitly set flags over cfg
func (f *sessionFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = f.provider
	}
	if flags.Changed("model") {
		cfg.Models = map[string]string{"lite": f.model, "standard": f.model, "advanced": f.model}
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if flags.Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if flags.Changed("temperature") {
		temperature := f.temperature
		cfg.Temperature = &temperature
	}
	if flags.Changed("memory-threshold") {
		cfg.MemoryThreshold = f.memoryThreshold
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if flags.Changed("stop-word") {
		cfg.StopWord = f.stopWord
	}
	if flags.Changed("on-turn-error") {
		cfg.OnTurnError = f.onTurnError
	}
	if flags.Changed("fact-limit") {
		cfg.FactLimit = f.factLimit
	}
	if flags.Changed("knowledge-path") {
		cfg.KnowledgePath = f.knowledgePath
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = f.logDir
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
}

// loadSettings resolves the configuration: file, then explicit flags, then
// defaults, then environment.
func loadSettings(cmd *cobra.Command, flags *sessionFlags) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		logger.Debug("loaded config", zap.String("path", configPath))
	}

	if flags != nil {
		flags.apply(cmd, &cfg)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
