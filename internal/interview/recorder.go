package interview

import (
	"context"
	"errors"

	"github.com/jonathan/interview-coach/internal/types"
)

// Recorder persists session events. The session hands over the whole log on
// every call; implementations may rewrite it or store only the delta.
type Recorder interface {
	Start(ctx context.Context, log *types.SessionLog) error
	RecordTurn(ctx context.Context, log *types.SessionLog, turn types.Turn) error
	RecordDecision(ctx context.Context, log *types.SessionLog) error
}

// MultiRecorder fans every event out to all recorders and joins their errors.
type MultiRecorder []Recorder

// Start implements Recorder
func (m MultiRecorder) Start(ctx context.Context, log *types.SessionLog) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Start(ctx, log))
	}
	return errors.Join(errs...)
}

// RecordTurn implements Recorder
func (m MultiRecorder) RecordTurn(ctx context.Context, log *types.SessionLog, turn types.Turn) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordTurn(ctx, log, turn))
	}
	return errors.Join(errs...)
}

// RecordDecision implements Recorder
func (m MultiRecorder) RecordDecision(ctx context.Context, log *types.SessionLog) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordDecision(ctx, log))
	}
	return errors.Join(errs...)
}

type nopRecorder struct{}

func (nopRecorder) Start(context.Context, *types.SessionLog) error                  { return nil }
func (nopRecorder) RecordTurn(context.Context, *types.SessionLog, types.Turn) error { return nil }
func (nopRecorder) RecordDecision(context.Context, *types.SessionLog) error         { return nil }
