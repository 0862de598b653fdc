//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestSessionLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	log := types.NewSessionLog("Integration Candidate", time.Now().UTC().Truncate(time.Millisecond))
	recorder := NewRecorder(db, SourceScenario)
	require.NoError(t, recorder.Start(ctx, log))

	turn := types.Turn{Index: 1, VisibleMessage: "Hello", CandidateMessage: "Hi", InternalNotes: "[Mentor]: {}"}
	log.Turns = append(log.Turns, turn)
	require.NoError(t, recorder.RecordTurn(ctx, log, turn))

	// Re-recording a turn updates it in place
	turn.VisibleMessage = "Hello again"
	require.NoError(t, recorder.RecordTurn(ctx, log, turn))

	log.FinalFeedback = &types.FinalDecisionReport{
		Level:          types.LevelMiddle,
		Recommendation: types.RecommendHire,
		Confidence:     70,
	}
	require.NoError(t, recorder.RecordDecision(ctx, log))

	session, err := db.GetSession(ctx, log.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Integration Candidate", session.ParticipantName)
	assert.Equal(t, SourceScenario, session.Source)
	assert.NotNil(t, session.CompletedAt)
	require.NotNil(t, session.FinalDecision)
	assert.Equal(t, types.LevelMiddle, session.FinalDecision.Level)

	turns, err := db.ListTurns(ctx, log.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Hello again", turns[0].VisibleMessage)

	sessions, err := db.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, sessions)

	loaded, err := db.LoadSessionLog(ctx, log.SessionID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, log.ParticipantName, loaded.ParticipantName)
	require.Len(t, loaded.Turns, 1)
	assert.Equal(t, "Hello again", loaded.Turns[0].VisibleMessage)
	assert.Equal(t, types.RecommendHire, loaded.FinalFeedback.Recommendation)
}

func TestGetSession_NotFound_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	session, err := db.GetSession(context.Background(), types.NewSessionLog("", time.Now()).SessionID)
	require.NoError(t, err)
	assert.Nil(t, session)
}
