// Package interview sequences the panel over a stream of candidate messages:
// memory check, parallel analysis, strategy, the generate/judge loop, and the
// log record of every completed turn, followed by one final decision.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/dialogue"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultStopWord ends the session when sent as a candidate message
const DefaultStopWord = "STOP"

// OpeningLine greets the candidate before the first turn
const OpeningLine = "Hello! Let's start your interview. Tell me about yourself."

// Policy decides what a failed turn does to the session
type Policy string

// Turn failure policies
const (
	// PolicyAbort ends the session with the error; no final decision is made
	PolicyAbort Policy = "abort"
	// PolicySkip drops the failed candidate message and waits for the next one
	PolicySkip Policy = "skip"
)

// Progress event steps
const (
	EventStarted      = "started"
	EventConsolidated = "consolidated"
	EventAnalyzed     = "analyzed"
	EventStrategy     = "strategy"
	EventAttempt      = "attempt"
	EventTurn         = "turn"
	EventSkipped      = "skipped"
	EventStopped      = "stopped"
	EventDecision     = "decision"
)

// ProgressEvent reports what the session just did
type ProgressEvent struct {
	Step    string `json:"step"`
	Turn    int    `json:"turn,omitempty"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called for every progress event
type ProgressCallback func(event ProgressEvent)

// Options configures a Session
type Options struct {
	StopWord    string
	OnTurnError Policy
	Recorder    Recorder
	Logger      *zap.Logger
	OnProgress  ProgressCallback
	// History seeds the conversation, e.g. when resuming
	History types.History
	Now     func() time.Time
}

// TurnResult describes one completed turn
type TurnResult struct {
	Turn      types.Turn
	Reports   analysis.Reports
	Directive types.StrategyDirective
	Outcome   dialogue.Outcome
	// Summary is set when the history was consolidated before this turn
	Summary *types.ConversationSummary
}

// Terminates reports whether the mentor ended the interview on this turn
func (r TurnResult) Terminates() bool {
	return r.Directive.Terminates()
}

// Session owns the live history and the full transcript of one interview.
type Session struct {
	panel      Panel
	opts       Options
	log        *types.SessionLog
	history    types.History
	transcript types.Transcript
	started    bool
	finished   bool
}

// NewSession creates a session for participant.
func NewSession(participant string, panel Panel, opts Options) *Session {
	if opts.StopWord == "" {
		opts.StopWord = DefaultStopWord
	}
	if opts.OnTurnError == "" {
		opts.OnTurnError = PolicyAbort
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Session{
		panel:      panel,
		opts:       opts,
		log:        types.NewSessionLog(participant, opts.Now()),
		history:    opts.History,
		transcript: types.Transcript(opts.History),
	}
}

// Log returns the session document
func (s *Session) Log() *types.SessionLog {
	return s.log
}

// History returns the live, possibly consolidated, history
func (s *Session) History() types.History {
	return s.history
}

// Transcript returns the full transcript
func (s *Session) Transcript() types.Transcript {
	return s.transcript
}

// Run drives the session until the stop word, a terminating directive or the
// end of the source, then makes the final decision. A failed turn either
// aborts the session (the error is a *TurnError and no decision is made) or
// is skipped, depending on the configured policy.
func (s *Session) Run(ctx context.Context, source Source) (*types.SessionLog, error) {
	if s.finished {
		return s.log, ErrSessionFinished
	}
	s.start(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return s.log, err
		}

		message, ok, err := source.Next(ctx)
		if err != nil {
			return s.log, err
		}
		if !ok {
			break
		}
		if IsStop(message, s.opts.StopWord) {
			s.emit(EventStopped, len(s.log.Turns), "stop word received", nil)
			break
		}
		if strings.TrimSpace(message) == "" {
			continue
		}

		result, err := s.Turn(ctx, message)
		if err != nil {
			var turnErr *TurnError
			if s.opts.OnTurnError == PolicySkip && errors.As(err, &turnErr) {
				s.opts.Logger.Warn("skipping failed turn",
					zap.Int("turn", turnErr.Turn),
					zap.String("step", turnErr.Step),
					zap.Error(turnErr.Cause))
				s.emit(EventSkipped, turnErr.Turn, turnErr.Error(), nil)
				continue
			}
			return s.log, err
		}
		if result.Terminates() {
			s.emit(EventStopped, result.Turn.Index, "interview ended by the mentor", nil)
			break
		}
	}

	if _, err := s.Finish(ctx); err != nil {
		return s.log, err
	}
	return s.log, nil
}

func (s *Session) start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	if err := s.opts.Recorder.Start(ctx, s.log); err != nil {
		s.opts.Logger.Warn("failed to persist session start", zap.Error(err))
	}
	threshold, attempts := s.panel.Memory.Threshold(), s.panel.Dialogue.MaxAttempts()
	s.opts.Logger.Debug("session started",
		zap.String("session_id", s.log.SessionID.String()),
		zap.Int("memory_threshold", threshold),
		zap.Int("max_attempts", attempts))
	s.emit(EventStarted, 0, fmt.Sprintf("interview with %s started (history compacted above %d entries, %d attempts per reply)",
		s.log.ParticipantName, threshold, attempts), s.log.SessionID)
}

// Turn runs one candidate message through the panel. The session state only
// changes when the turn completes, except that a consolidation that already
// happened is kept.
func (s *Session) Turn(ctx context.Context, message string) (TurnResult, error) {
	if s.finished {
		return TurnResult{}, ErrSessionFinished
	}
	s.start(ctx)

	index := len(s.log.Turns) + 1
	var result TurnResult

	history, summary, err := s.panel.Memory.Consolidate(ctx, s.history)
	if err != nil {
		return result, &TurnError{Turn: index, Step: StepMemory, Cause: err}
	}
	if summary != nil {
		s.history = history
		result.Summary = summary
		s.opts.Logger.Debug("history consolidated", zap.Int("turn", index), zap.Int("entries", history.Len()))
		s.emit(EventConsolidated, index, "conversation history consolidated", history)
	}

	history = history.Append(types.RoleCandidate, message)

	reports, err := s.panel.Analyzer.Run(ctx, message)
	if err != nil {
		return result, &TurnError{Turn: index, Step: StepAnalysis, Cause: err}
	}
	result.Reports = reports
	s.emit(EventAnalyzed, index, "candidate message analyzed", reports)

	directive, err := s.panel.Mentor.Run(ctx, agents.Input{
		History:      history,
		FactCheck:    &reports.FactCheck,
		PsychProfile: &reports.Psych,
	})
	if err != nil {
		return result, &TurnError{Turn: index, Step: StepStrategy, Cause: err}
	}
	result.Directive = directive
	s.emit(EventStrategy, index, directive.Strategy, directive)

	outcome, err := s.panel.Dialogue.Run(ctx, directive, history)
	if err != nil {
		return result, &TurnError{Turn: index, Step: StepDialogue, Cause: err}
	}
	result.Outcome = outcome
	for _, attempt := range outcome.Attempts {
		s.emit(EventAttempt, index, fmt.Sprintf("attempt %d judged", attempt.Number), attempt)
	}

	s.history = history.Append(types.RoleInterviewer, outcome.Text)
	s.transcript = s.transcript.
		Append(types.RoleCandidate, message).
		Append(types.RoleInterviewer, outcome.Text)

	notes := types.InternalNotes{
		FactCheck: &reports.FactCheck,
		Psych:     &reports.Psych,
		Strategy:  &directive,
		Verdicts:  outcome.Verdicts(),
	}
	turn := types.Turn{
		Index:            index,
		VisibleMessage:   outcome.Text,
		CandidateMessage: message,
		InternalNotes:    notes.String(),
	}
	s.log.Turns = append(s.log.Turns, turn)
	result.Turn = turn

	if err := s.opts.Recorder.RecordTurn(ctx, s.log, turn); err != nil {
		s.opts.Logger.Warn("failed to persist turn", zap.Int("turn", index), zap.Error(err))
	}

	s.opts.Logger.Debug("turn completed",
		zap.Int("turn", index),
		zap.String("state", string(outcome.State)),
		zap.Int("attempts", len(outcome.Attempts)))
	s.emit(EventTurn, index, outcome.Text, turn)

	return result, nil
}

// Finish hands the transcript to the decision maker and records the report.
// It succeeds at most once per session.
func (s *Session) Finish(ctx context.Context) (*types.FinalDecisionReport, error) {
	if s.finished {
		return nil, ErrSessionFinished
	}
	s.start(ctx)

	report, err := s.panel.DecisionMaker.Run(ctx, agents.Input{Transcript: s.transcript})
	if err != nil {
		return nil, fmt.Errorf("final decision failed: %w", err)
	}
	s.finished = true
	s.log.FinalFeedback = &report

	if err := s.opts.Recorder.RecordDecision(ctx, s.log); err != nil {
		s.opts.Logger.Warn("failed to persist final decision", zap.Error(err))
	}
	s.emit(EventDecision, len(s.log.Turns), string(report.Recommendation), report)
	return &report, nil
}

func (s *Session) emit(step string, turn int, message string, content any) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(ProgressEvent{
			Step:    step,
			Turn:    turn,
			Message: message,
			Content: content,
		})
	}
}
