package types

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one logged candidate-input/visible-response exchange.
// Turns are appended in arrival order and never modified afterwards.
type Turn struct {
	Index            int    `json:"turn_id"`
	VisibleMessage   string `json:"agent_visible_message"`
	CandidateMessage string `json:"user_message"`
	InternalNotes    string `json:"internal_thoughts"`
}

// SessionLog is the persisted document for one interview session
type SessionLog struct {
	SessionID       uuid.UUID            `json:"session_id"`
	ParticipantName string               `json:"participant_name"`
	StartTime       time.Time            `json:"start_time"`
	Turns           []Turn               `json:"turns"`
	FinalFeedback   *FinalDecisionReport `json:"final_feedback"`
}

// NewSessionLog creates an empty log for a participant
func NewSessionLog(participant string, start time.Time) *SessionLog {
	if participant == "" {
		participant = "Unknown"
	}
	return &SessionLog{
		SessionID:       uuid.New(),
		ParticipantName: participant,
		StartTime:       start,
		Turns:           []Turn{},
	}
}
