package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-coach/internal/types"
)

// Session sources
const (
	SourceInteractive = "interactive"
	SourceScenario    = "scenario"
)

// Session represents an interview_sessions row
type Session struct {
	ID              uuid.UUID                  `json:"id"`
	ParticipantName string                     `json:"participant_name"`
	Source          string                     `json:"source"`
	StartedAt       time.Time                  `json:"started_at"`
	CompletedAt     *time.Time                 `json:"completed_at,omitempty"`
	FinalDecision   *types.FinalDecisionReport `json:"final_decision,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// TurnRecord represents an interview_turns row
type TurnRecord struct {
	SessionID uuid.UUID `json:"session_id"`
	types.Turn
	CreatedAt time.Time `json:"created_at"`
}

// UpsertSession creates or refreshes the session row of log
func (db *DB) UpsertSession(ctx context.Context, log *types.SessionLog, source string) error {
	if source == "" {
		source = SourceInteractive
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, participant_name, source, started_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET participant_name = $2, source = $3, started_at = $4`,
		log.SessionID, log.ParticipantName, source, log.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", log.SessionID, err)
	}
	return nil
}

// UpsertTurn stores one turn of a session
func (db *DB) UpsertTurn(ctx context.Context, sessionID uuid.UUID, turn types.Turn) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO interview_turns (session_id, turn_id, visible_message, candidate_message, internal_notes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, turn_id) DO UPDATE
		 SET visible_message = $3, candidate_message = $4, internal_notes = $5`,
		sessionID, turn.Index, turn.VisibleMessage, turn.CandidateMessage, turn.InternalNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert turn %d of session %s: %w", turn.Index, sessionID, err)
	}
	return nil
}

// CompleteSession stores the final decision and marks the session completed
func (db *DB) CompleteSession(ctx context.Context, sessionID uuid.UUID, report *types.FinalDecisionReport) error {
	var reportJSON []byte
	if report != nil {
		var err error
		reportJSON, err = json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal final decision: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET final_decision = $1, completed_at = NOW() WHERE id = $2`,
		reportJSON, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session %s: %w", sessionID, err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil when it does not exist.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var s Session
	var reportJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, participant_name, source, started_at, completed_at, final_decision, created_at
		 FROM interview_sessions WHERE id = $1`,
		sessionID,
	).Scan(&s.ID, &s.ParticipantName, &s.Source, &s.StartedAt, &s.CompletedAt, &reportJSON, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if reportJSON != nil {
		var report types.FinalDecisionReport
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal final decision: %w", err)
		}
		s.FinalDecision = &report
	}
	return &s, nil
}

// ListTurns retrieves the turns of a session in order
func (db *DB) ListTurns(ctx context.Context, sessionID uuid.UUID) ([]TurnRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT session_id, turn_id, visible_message, candidate_message, internal_notes, created_at
		 FROM interview_turns WHERE session_id = $1 ORDER BY turn_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		if err := rows.Scan(&t.SessionID, &t.Index, &t.VisibleMessage, &t.CandidateMessage, &t.InternalNotes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListSessions retrieves the most recent sessions
func (db *DB) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, participant_name, source, started_at, completed_at, created_at
		 FROM interview_sessions ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ParticipantName, &s.Source, &s.StartedAt, &s.CompletedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Recorder mirrors session events into the database
type Recorder struct {
	db     *DB
	source string
}

// NewRecorder creates a Recorder tagging sessions with source
func NewRecorder(db *DB, source string) *Recorder {
	return &Recorder{db: db, source: source}
}

// Start stores the session row
func (r *Recorder) Start(ctx context.Context, log *types.SessionLog) error {
	return r.db.UpsertSession(ctx, log, r.source)
}

// RecordTurn stores one turn
func (r *Recorder) RecordTurn(ctx context.Context, log *types.SessionLog, turn types.Turn) error {
	return r.db.UpsertTurn(ctx, log.SessionID, turn)
}

// RecordDecision stores the final decision
func (r *Recorder) RecordDecision(ctx context.Context, log *types.SessionLog) error {
	return r.db.CompleteSession(ctx, log.SessionID, log.FinalFeedback)
}

// LoadSessionLog rebuilds the session log of a stored session. Returns nil
// when the session does not exist.
func (db *DB) LoadSessionLog(ctx context.Context, sessionID uuid.UUID) (*types.SessionLog, error) {
	session, err := db.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return nil, err
	}

	records, err := db.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log := &types.SessionLog{
		SessionID:       session.ID,
		ParticipantName: session.ParticipantName,
		StartTime:       session.StartedAt,
		Turns:           make([]types.Turn, 0, len(records)),
		FinalFeedback:   session.FinalDecision,
	}
	for _, r := range records {
		log.Turns = append(log.Turns, r.Turn)
	}
	return log, nil
}
