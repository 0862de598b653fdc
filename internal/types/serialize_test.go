package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	correction := "Generators yield lazily"
	report := FactCheckReport{Verdict: VerdictPartiallyTrue, Evidence: "see docs", Correction: &correction}

	text := Canonical(report)

	assert.Equal(t, `{"verdict":"PARTIALLY_TRUE","evidence":"see docs","correction":"Generators yield lazily"}`, text)
	assert.NotContains(t, text, "\n")
}

func TestCanonical_Nil(t *testing.T) {
	assert.Equal(t, "N/A", Canonical(nil))
}

func TestInternalNotes_String(t *testing.T) {
	notes := InternalNotes{
		FactCheck: &FactCheckReport{Verdict: VerdictTrue, Evidence: "line1\nline2"},
		Psych:     &PsychProfile{EmotionalState: "calm", CommunicationStyle: "direct", SoftSkills: []string{"clarity"}},
		Strategy:  &StrategyDirective{Instruction: "Ask about indexes", Tone: ToneFriendly},
		Verdicts: []JudgeVerdict{
			{Approved: false, Feedback: "shorter", Score: 4},
			{Approved: true, Feedback: "ok", Score: 8},
		},
	}

	text := notes.String()
	lines := strings.Split(text, "\n")

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "[Fact-Checker]: "))
	assert.True(t, strings.HasPrefix(lines[1], "[Psychologist]: "))
	assert.True(t, strings.HasPrefix(lines[2], "[Mentor]: "))
	assert.True(t, strings.HasPrefix(lines[3], "[Judge]: attempt 1 "))
	assert.Contains(t, lines[3], "attempt 2")
}

func TestInternalNotes_Empty(t *testing.T) {
	assert.Equal(t, "", InternalNotes{}.String())
}

func TestTranscript_Append(t *testing.T) {
	var tr Transcript
	tr = tr.Append(RoleCandidate, "hi")
	tr = tr.Append(RoleInterviewer, "hello")

	assert.Equal(t, "Candidate: hi\nInterviewer: hello", tr.Text())
}

func TestNewSessionLog(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	log := NewSessionLog("", start)

	assert.Equal(t, "Unknown", log.ParticipantName)
	assert.Equal(t, start, log.StartTime)
	assert.NotNil(t, log.Turns)
	assert.Empty(t, log.Turns)
	assert.Nil(t, log.FinalFeedback)
}
