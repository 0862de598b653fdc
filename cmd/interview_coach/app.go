package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/knowledge"
	"github.com/jonathan/interview-coach/internal/llm"
)

// app holds the long-lived collaborators of a command
type app struct {
	cfg      config.Config
	client   llm.Client
	kb       *knowledge.Base
	database *db.DB
	panel    interview.Panel
}

// openKnowledge opens the fact corpus described by cfg
func openKnowledge(cfg config.Config) (*knowledge.Base, error) {
	kb, err := knowledge.Open(knowledge.Options{
		Path:           cfg.KnowledgePath,
		MinQueryLength: cfg.MinQueryLength,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return kb, nil
}

// newApp connects the model client, the knowledge base and, when
// configured, the database. A database failure is only a warning.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("API key is required (use --api-key or set %s)", config.APIKeyEnv(llmCfg.Provider))
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	kb, err := openKnowledge(cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	a := &app{cfg: cfg, client: client, kb: kb}
	a.panel = interview.NewPanel(client, kb, interview.PanelConfig{
		FactLimit:       cfg.FactLimit,
		QuestionBank:    knowledge.DefaultQuestions().Format(),
		MemoryThreshold: cfg.MemoryThreshold,
		MemoryRetain:    cfg.MemoryRetain,
		MaxAttempts:     cfg.MaxAttempts,
		Logger:          logger,
	})

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err == nil {
			err = database.EnsureSchema(ctx)
			if err != nil {
				database.Close()
			}
		}
		if err != nil {
			logger.Warn("continuing without database persistence", zap.Error(err))
		} else {
			a.database = database
			logger.Debug("connected to database")
		}
	}

	logger.Debug("app ready",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("advanced_model", llmCfg.GetModel(llm.TierAdvanced)))
	return a, nil
}

// recorder returns the database recorder, or nil without a database
func (a *app) recorder(source string) interview.Recorder {
	if a.database == nil {
		return nil
	}
	return db.NewRecorder(a.database, source)
}

// sessionOptions maps the configuration onto session options
func (a *app) sessionOptions() interview.Options {
	return interview.Options{
		StopWord:    a.cfg.StopWord,
		OnTurnError: interview.Policy(a.cfg.OnTurnError),
		Logger:      logger,
	}
}

func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
	if err := a.kb.Close(); err != nil {
		logger.Warn("failed to close knowledge base", zap.Error(err))
	}
	if err := a.client.Close(); err != nil {
		logger.Warn("failed to close LLM client", zap.Error(err))
	}
}
