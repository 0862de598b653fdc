// Package types provides type definitions for structured data used throughout the interview-coach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Role identifies who produced a history entry
type Role string

// Role constants for conversation history entries
const (
	RoleCandidate   Role = "Candidate"
	RoleInterviewer Role = "Interviewer"
	RoleSystem      Role = "System"
)

// SummaryPrefix starts the content of the synthetic System entry produced by consolidation
const SummaryPrefix = "Previous conversation summary: "

// Entry is a single message in the conversation history
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is an ordered conversation history.
// Values are treated as immutable: every transformation returns a new slice
// and never writes into the backing array of its receiver.
type History []Entry

// Append returns a new history with the entry added at the end.
func (h History) Append(role Role, content string) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Entry{Role: role, Content: content})
}

// Tail returns a copy of the last n entries (all entries when n exceeds the length).
func (h History) Tail(n int) History {
	if n <= 0 {
		return History{}
	}
	if n > len(h) {
		n = len(h)
	}
	out := make(History, n)
	copy(out, h[len(h)-n:])
	return out
}

// Len returns the number of entries
func (h History) Len() int {
	return len(h)
}

// Format renders the history as "Role: content" lines.
func (h History) Format() string {
	lines := make([]string, 0, len(h))
	for _, e := range h {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Role, e.Content))
	}
	return strings.Join(lines, "\n")
}

// FormatLast renders only the last n entries.
func (h History) FormatLast(n int) string {
	return h.Tail(n).Format()
}

// Compact replaces the history with one System summary entry followed by the
// last keep entries, preserved verbatim and in order.
func (h History) Compact(summary ConversationSummary, keep int) History {
	tail := h.Tail(keep)
	out := make(History, 0, len(tail)+1)
	out = append(out, Entry{Role: RoleSystem, Content: summary.SystemContent()})
	return append(out, tail...)
}

// SystemContent renders the summary as the content of the synthetic System entry.
func (s ConversationSummary) SystemContent() string {
	var sb strings.Builder
	sb.WriteString(SummaryPrefix)
	sb.WriteString(s.Summary)
	if len(s.KeyPoints) > 0 {
		sb.WriteString("\nKey points: ")
		sb.WriteString(strings.Join(s.KeyPoints, "; "))
	}
	return sb.String()
}
