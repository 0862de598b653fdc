package interview

import (
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/dialogue"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/memory"
	"github.com/jonathan/interview-coach/internal/types"
)

// Panel is the set of collaborators a session drives. Every member is passed
// in explicitly; a panel may be shared by sessions because none of its
// members keep per-session state.
type Panel struct {
	Analyzer      *analysis.Analyzer
	Mentor        agents.Agent[types.StrategyDirective]
	Dialogue      *dialogue.Loop
	Memory        *memory.Manager
	DecisionMaker agents.Agent[types.FinalDecisionReport]
}

// PanelConfig holds the tunables used by NewPanel
type PanelConfig struct {
	FactLimit       int
	QuestionBank    string
	MemoryThreshold int
	MemoryRetain    int
	MaxAttempts     int
	Logger          *zap.Logger
}

// NewPanel wires every role to one model client and the fact corpus.
func NewPanel(client llm.Client, corpus agents.Corpus, cfg PanelConfig) Panel {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opt := agents.WithLogger(logger)

	return Panel{
		Analyzer: analysis.NewAnalyzer(
			agents.NewFactChecker(client, corpus, cfg.FactLimit, opt),
			agents.NewPsychologist(client, opt),
		),
		Mentor: agents.NewMentor(client, cfg.QuestionBank, opt),
		Dialogue: dialogue.NewLoop(
			agents.NewInterviewer(client, opt),
			agents.NewJudge(client, opt),
			dialogue.Options{MaxAttempts: cfg.MaxAttempts, Logger: logger},
		),
		Memory: memory.NewManager(agents.NewSummarizer(client, opt), memory.Options{
			Threshold: cfg.MemoryThreshold,
			Retain:    cfg.MemoryRetain,
			Logger:    logger,
		}),
		DecisionMaker: agents.NewDecisionMaker(client, opt),
	}
}
