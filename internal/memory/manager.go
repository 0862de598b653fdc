// Package memory bounds the conversation history handed to the panel by
// replacing an over-long history with a summary plus a short verbatim tail.
package memory

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultThreshold is the history length above which consolidation fires
	DefaultThreshold = 6
	// DefaultRetain is the number of most recent entries kept verbatim
	DefaultRetain = 2
)

// Options configures a Manager
type Options struct {
	Threshold int
	Retain    int
	Logger    *zap.Logger
}

// Manager consolidates histories that grow past the threshold.
type Manager struct {
	summarizer agents.Agent[types.ConversationSummary]
	threshold  int
	retain     int
	logger     *zap.Logger
}

// NewManager creates a Manager. Zero option values fall back to the defaults.
func NewManager(summarizer agents.Agent[types.ConversationSummary], opts Options) *Manager {
	m := &Manager{
		summarizer: summarizer,
		threshold:  opts.Threshold,
		retain:     opts.Retain,
		logger:     opts.Logger,
	}
	if m.threshold <= 0 {
		m.threshold = DefaultThreshold
	}
	if m.retain <= 0 {
		m.retain = DefaultRetain
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Threshold returns the configured threshold
func (m *Manager) Threshold() int {
	return m.threshold
}

// NeedsConsolidation reports whether h is longer than the threshold
func (m *Manager) NeedsConsolidation(h types.History) bool {
	return h.Len() > m.threshold
}

// Consolidate returns h unchanged (and a nil summary) when it is within the
// threshold. Otherwise the whole history is summarized and replaced by one
// System entry followed by the last Retain entries.
func (m *Manager) Consolidate(ctx context.Context, h types.History) (types.History, *types.ConversationSummary, error) {
	if !m.NeedsConsolidation(h) {
		return h, nil, nil
	}

	summary, err := m.summarizer.Run(ctx, agents.Input{History: h})
	if err != nil {
		return h, nil, fmt.Errorf("failed to summarize %d history entries: %w", h.Len(), err)
	}

	compacted := h.Compact(summary, m.retain)
	m.logger.Debug("history consolidated",
		zap.Int("before", h.Len()),
		zap.Int("after", compacted.Len()),
		zap.Int("key_points", len(summary.KeyPoints)))

	return compacted, &summary, nil
}
