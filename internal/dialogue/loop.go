// Package dialogue produces the candidate-facing message of a turn through a
// bounded generate and judge cycle.
package dialogue

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the generation calls per turn
const DefaultMaxAttempts = 2

// State of the generate/judge cycle
type State string

// States. Approved and Exhausted are terminal.
const (
	StateGenerating State = "generating"
	StateJudging    State = "judging"
	StateRetrying   State = "retrying"
	StateApproved   State = "approved"
	StateExhausted  State = "exhausted"
)

// Attempt records one generation and its verdict
type Attempt struct {
	Number      int
	Instruction string
	Text        string
	Verdict     types.JudgeVerdict
}

// Outcome is the result of a completed cycle
type Outcome struct {
	// Text is the accepted message: always the most recently generated one
	Text     string
	State    State
	Attempts []Attempt
}

// Approved reports whether the judge accepted the final text
func (o Outcome) Approved() bool {
	return o.State == StateApproved
}

// Verdicts returns the judge verdicts in attempt order
func (o Outcome) Verdicts() []types.JudgeVerdict {
	verdicts := make([]types.JudgeVerdict, len(o.Attempts))
	for i, a := range o.Attempts {
		verdicts[i] = a.Verdict
	}
	return verdicts
}

// Options configures a Loop
type Options struct {
	MaxAttempts int
	Logger      *zap.Logger
	// OnTransition, if set, observes every state change
	OnTransition func(state State, attempt int)
	// OnAttempt, if set, is called after every judged attempt
	OnAttempt func(Attempt)
}

// Loop runs the interviewer against the judge.
type Loop struct {
	interviewer agents.Agent[string]
	judge       agents.Agent[types.JudgeVerdict]
	opts        Options
}

// NewLoop creates a Loop. MaxAttempts <= 0 means DefaultMaxAttempts.
func NewLoop(interviewer agents.Agent[string], judge agents.Agent[types.JudgeVerdict], opts Options) *Loop {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Loop{interviewer: interviewer, judge: judge, opts: opts}
}

// MaxAttempts returns the configured attempt budget
func (l *Loop) MaxAttempts() int {
	return l.opts.MaxAttempts
}

// Run generates a response for directive. Every generation is judged exactly
// once. A rejected attempt is retried with the original instruction plus the
// judge's feedback until the budget is spent, after which the last text is
// accepted anyway. Agent failures are returned as errors and do not consume
// the budget.
func (l *Loop) Run(ctx context.Context, directive types.StrategyDirective, history types.History) (Outcome, error) {
	outcome := Outcome{State: StateGenerating}
	current := directive

	for attempt := 1; ; attempt++ {
		l.transition(&outcome, StateGenerating, attempt)
		text, err := l.interviewer.Run(ctx, agents.Input{
			History:     history,
			Instruction: current.Instruction,
			Tone:        current.Tone,
		})
		if err != nil {
			return outcome, fmt.Errorf("failed to generate response at attempt %d: %w", attempt, err)
		}

		l.transition(&outcome, StateJudging, attempt)
		verdict, err := l.judge.Run(ctx, agents.Input{
			History:           history,
			Instruction:       current.Instruction,
			GeneratedResponse: text,
		})
		if err != nil {
			return outcome, fmt.Errorf("failed to judge response at attempt %d: %w", attempt, err)
		}

		record := Attempt{
			Number:      attempt,
			Instruction: current.Instruction,
			Text:        text,
			Verdict:     verdict,
		}
		outcome.Attempts = append(outcome.Attempts, record)
		outcome.Text = text
		if l.opts.OnAttempt != nil {
			l.opts.OnAttempt(record)
		}

		l.opts.Logger.Debug("response judged",
			zap.Int("attempt", attempt),
			zap.Bool("approved", verdict.Approved),
			zap.Int("score", verdict.Score))

		if verdict.Approved {
			l.transition(&outcome, StateApproved, attempt)
			return outcome, nil
		}
		if attempt >= l.opts.MaxAttempts {
			l.transition(&outcome, StateExhausted, attempt)
			l.opts.Logger.Warn("judge never approved, accepting last response",
				zap.Int("attempts", attempt))
			return outcome, nil
		}

		l.transition(&outcome, StateRetrying, attempt)
		current = directive.WithFeedback(verdict.Feedback)
	}
}

func (l *Loop) transition(o *Outcome, state State, attempt int) {
	o.State = state
	if l.opts.OnTransition != nil {
		l.opts.OnTransition(state, attempt)
	}
}
