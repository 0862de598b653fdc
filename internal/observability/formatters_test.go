package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/dialogue"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/sessionlog"
	"github.com/jonathan/interview-coach/internal/types"
)

func sampleDecision() *types.FinalDecisionReport {
	return &types.FinalDecisionReport{
		Level:                types.LevelSenior,
		Recommendation:       types.RecommendStrongHire,
		Confidence:           92,
		HardSkillsConfirmed:  []string{"Go", "Postgres", "Kafka", "gRPC", "Docker", "Terraform", "Redis"},
		KnowledgeGaps:        []string{"Rust"},
		SoftSkillsAssessment: "Clear and calm under pressure.",
		Roadmap:              []string{"Learn Rust ownership"},
	}
}

func TestPrintReports(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	correction := "The GIL serializes bytecode execution."

	p.PrintReports(2, analysis.Reports{
		FactCheck: types.FactCheckReport{
			Verdict:    types.VerdictPartiallyTrue,
			Evidence:   "Threads share one interpreter lock.",
			Correction: &correction,
		},
		Psych: types.PsychProfile{
			EmotionalState:     "nervous",
			CommunicationStyle: "verbose",
			SoftSkills:         []string{"honesty"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "TURN 2 · ANALYSIS")
	assert.Contains(t, output, "PARTIALLY_TRUE")
	assert.Contains(t, output, "The GIL serializes")
	assert.Contains(t, output, "nervous")
	assert.Contains(t, output, "honesty")
	assert.NotContains(t, output, "Stress markers")
}

func TestPrintDirective_Terminating(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDirective(4, types.StrategyDirective{
		Strategy:        "wrap up",
		Instruction:     "Thank the candidate",
		Tone:            types.ToneFriendly,
		InterviewStatus: types.StatusTerminate,
	})
	output := buf.String()

	assert.Contains(t, output, "TURN 4 · STRATEGY")
	assert.Contains(t, output, "Thank the candidate")
	assert.Contains(t, output, "ends the interview")
}

func TestPrintAttempt(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAttempt(1, dialogue.Attempt{Number: 1, Verdict: types.JudgeVerdict{Approved: false, Feedback: "too long", Score: 4}})
	p.PrintAttempt(1, dialogue.Attempt{Number: 2, Verdict: types.JudgeVerdict{Approved: true, Feedback: "good", Score: 9}})
	output := buf.String()

	assert.Contains(t, output, "attempt 1 ✗ score 4/10")
	assert.Contains(t, output, "feedback: too long")
	assert.Contains(t, output, "attempt 2 ✓ score 9/10")
	assert.NotContains(t, output, "feedback: good")
}

func TestPrintDecision(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDecision(sampleDecision())
	output := buf.String()

	assert.Contains(t, output, "FINAL DECISION")
	assert.Contains(t, output, "Strong Hire")
	assert.Contains(t, output, "92%")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Learn Rust ownership")
}

func TestPrintDecision_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDecision(nil)
	assert.Empty(t, buf.String())
}

func TestHandleEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.HandleEvent(interview.ProgressEvent{Step: interview.EventStarted, Message: "started"})
	assert.Empty(t, buf.String(), "events without printable content are ignored")

	history := types.History{}.
		Append(types.RoleSystem, types.SummaryPrefix+"Candidate knows SQL.").
		Append(types.RoleCandidate, "yes")
	p.HandleEvent(interview.ProgressEvent{Step: interview.EventConsolidated, Turn: 3, Content: history})
	p.HandleEvent(interview.ProgressEvent{Step: interview.EventDecision, Content: *sampleDecision()})
	output := buf.String()

	assert.Contains(t, output, "TURN 3 · MEMORY")
	assert.Contains(t, output, "History compacted to 2 entries")
	assert.Contains(t, output, "FINAL DECISION")
}

func TestPrintBox_WrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("word ", 40))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "привет ...", truncate("привет мир и все", 10))
}

func TestRenderDocument(t *testing.T) {
	doc := &sessionlog.Document{
		SessionLog: &types.SessionLog{
			ParticipantName: "Alex",
			StartTime:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Turns: []types.Turn{{
				Index:            1,
				VisibleMessage:   "What is a goroutine?",
				CandidateMessage: "I know Go well.",
				InternalNotes:    `[Fact-Checker]: {"verdict":"OPINION"} | [Mentor]: {"tone":"Neutral"}`,
			}},
			FinalFeedback: sampleDecision(),
		},
		Path: "interview/interview_log.json",
	}

	output := RenderDocument(doc)

	assert.Contains(t, output, "SESSION · Alex · interview_log.json")
	assert.Contains(t, output, "Turn 1")
	assert.Contains(t, output, "I know Go well.")
	assert.Contains(t, output, "What is a goroutine?")
	assert.Contains(t, output, "[Mentor]:")
	assert.Contains(t, output, "Strong Hire")
}

func TestRenderDocument_LegacyFeedbackAndMissingDecision(t *testing.T) {
	legacy := &sessionlog.Document{
		SessionLog:   &types.SessionLog{ParticipantName: "Sam"},
		Path:         "old.json",
		FeedbackText: "Solid junior candidate.",
	}
	assert.Contains(t, RenderDocument(legacy), "Solid junior candidate.")

	empty := &sessionlog.Document{SessionLog: &types.SessionLog{ParticipantName: "Kim"}, Path: "x.json"}
	assert.Contains(t, RenderDocument(empty), "No final decision recorded")
}
