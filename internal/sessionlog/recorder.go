package sessionlog

import (
	"context"

	"github.com/jonathan/interview-coach/internal/types"
)

// FileRecorder rewrites the whole session document at Path on every event.
type FileRecorder struct {
	Path string
}

// NewFileRecorder creates a FileRecorder
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{Path: path}
}

// Start writes the empty session
func (r *FileRecorder) Start(_ context.Context, log *types.SessionLog) error {
	return Save(r.Path, log)
}

// RecordTurn writes the session after turn has been appended to it
func (r *FileRecorder) RecordTurn(_ context.Context, log *types.SessionLog, _ types.Turn) error {
	return Save(r.Path, log)
}

// RecordDecision writes the session once the final feedback is set
func (r *FileRecorder) RecordDecision(_ context.Context, log *types.SessionLog) error {
	return Save(r.Path, log)
}
