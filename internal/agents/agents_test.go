package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/interview-coach/internal/knowledge"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	prompts []string
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

func jsonReply(body string) *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return body, nil
		},
	}
}

// mockCorpus implements Corpus
type mockCorpus struct {
	snippets []string
	err      error
	calls    int
	lastK    int
}

func (c *mockCorpus) Verify(_ context.Context, _ string, k int) ([]string, error) {
	c.calls++
	c.lastK = k
	return c.snippets, c.err
}

func historyOf(n int) types.History {
	var h types.History
	for i := 1; i <= n; i++ {
		role := types.RoleCandidate
		if i%2 == 0 {
			role = types.RoleInterviewer
		}
		h = h.Append(role, fmt.Sprintf("message-%02d", i))
	}
	return h
}

func TestFactChecker_GroundsOnCorpus(t *testing.T) {
	corpus := &mockCorpus{snippets: []string{"The GIL prevents parallel bytecode execution."}}
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierLite, tier)
			assert.Contains(t, prompt, "- The GIL prevents parallel bytecode execution.")
			assert.Contains(t, prompt, "Python threads run bytecode in parallel")
			assert.Contains(t, prompt, "PARTIALLY_TRUE")
			return "```json\n{\"verdict\": \"FALSE\", \"evidence\": \"The GIL serializes bytecode.\", \"correction\": \"Only one thread runs bytecode at a time.\"}\n```", nil
		},
	}

	checker := NewFactChecker(client, corpus, 2)
	report, err := checker.Run(context.Background(), Input{UserMessage: "Python threads run bytecode in parallel"})

	require.NoError(t, err)
	assert.Equal(t, types.VerdictFalse, report.Verdict)
	require.NotNil(t, report.Correction)
	assert.Equal(t, "Only one thread runs bytecode at a time.", *report.Correction)
	assert.Equal(t, 2, corpus.lastK)
	assert.Equal(t, RoleFactChecker, checker.Role())
}

func TestFactChecker_ShortQueryUsesSentinel(t *testing.T) {
	base, err := knowledge.Open(knowledge.Options{})
	require.NoError(t, err)
	defer func() { _ = base.Close() }()

	client := jsonReply(`{"verdict": "OPINION", "evidence": "Nothing to check."}`)
	checker := NewFactChecker(client, base, 2)

	report, err := checker.Run(context.Background(), Input{UserMessage: "yes"})
	require.NoError(t, err)
	assert.Equal(t, types.VerdictOpinion, report.Verdict)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], knowledge.TooShortMessage)
}

func TestFactChecker_NothingFound(t *testing.T) {
	client := jsonReply(`{"verdict": "OPINION", "evidence": "Personal preference."}`)
	checker := NewFactChecker(client, &mockCorpus{}, 2)

	_, err := checker.Run(context.Background(), Input{UserMessage: "I enjoy pair programming"})
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], knowledge.NothingFoundMessage)
}

func TestFactChecker_CorpusUnavailable(t *testing.T) {
	corpus := &mockCorpus{err: &knowledge.CorpusUnavailableError{Message: "search failed", Cause: errors.New("closed")}}
	client := jsonReply(`{"verdict": "TRUE", "evidence": "x"}`)

	_, err := NewFactChecker(client, corpus, 2).Run(context.Background(), Input{UserMessage: "Tuples are immutable"})
	require.Error(t, err)

	var unavailable *knowledge.CorpusUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Empty(t, client.prompts, "model must not be called when the corpus fails")
}

func TestStructuredAgent_TransportFailure(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", &llm.APICallError{Provider: llm.ProviderOpenAI, Message: "unauthorized"}
		},
	}

	_, err := NewPsychologist(client).Run(context.Background(), Input{UserMessage: "I think so"})
	require.Error(t, err)

	var apiErr *llm.APICallError
	assert.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "psychologist call failed")
}

func TestStructuredAgent_MalformedOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		field string
	}{
		{"not json", "I would rather not answer in JSON.", ""},
		{"missing field", `{"approved": true, "feedback": "ok"}`, "(root)"},
		{"wrong type", `{"approved": "yes", "feedback": "ok", "score": 5}`, "approved"},
		{"score out of range", `{"approved": true, "feedback": "ok", "score": 42}`, "score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJudge(jsonReply(tt.reply)).Run(context.Background(), Input{GeneratedResponse: "Hello"})
			require.Error(t, err)

			var malformed *MalformedOutputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, RoleJudge, malformed.Role)
			assert.Equal(t, tt.reply, malformed.Raw)
			if tt.field != "" {
				require.NotEmpty(t, malformed.Fields)
				assert.Equal(t, tt.field, malformed.Fields[0].Field)
			}
		})
	}
}

func TestPsychologist_Decodes(t *testing.T) {
	client := jsonReply(`{"emotional_state": "anxious", "communication_style": "short answers", "soft_skills": ["honesty"], "stress_markers": ["hedging"]}`)

	profile, err := NewPsychologist(client).Run(context.Background(), Input{UserMessage: "Umm, I am not sure"})
	require.NoError(t, err)
	assert.Equal(t, "anxious", profile.EmotionalState)
	assert.Equal(t, []string{"honesty"}, profile.SoftSkills)
	assert.Contains(t, client.prompts[0], "Umm, I am not sure")
}

func TestMentor_RendersWindowAndReports(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierAdvanced, tier)
			return `{"thought_process": "t", "strategy": "s", "instruction": "Ask about the GIL", "tone": "Strict"}`, nil
		},
	}
	correction := "Python 4.0 is not planned"
	in := Input{
		History:      historyOf(8),
		FactCheck:    &types.FactCheckReport{Verdict: types.VerdictFalse, Evidence: "e", Correction: &correction},
		PsychProfile: nil,
	}

	directive, err := NewMentor(client, "python/middle: Explain the GIL.").Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, types.ToneStrict, directive.Tone)
	assert.Equal(t, types.StatusContinue, directive.InterviewStatus, "missing status defaults to CONTINUE")

	prompt := client.prompts[0]
	assert.NotContains(t, prompt, "message-03")
	assert.Contains(t, prompt, "message-04")
	assert.Contains(t, prompt, "message-08")
	assert.Contains(t, prompt, `"verdict":"FALSE"`)
	assert.Contains(t, prompt, "Psychologist Report:\nN/A")
	assert.Contains(t, prompt, "python/middle: Explain the GIL.")
}

func TestMentor_Terminate(t *testing.T) {
	client := jsonReply(`{"thought_process": "t", "strategy": "s", "instruction": "Thank the candidate", "tone": "Friendly", "interview_status": "TERMINATE"}`)

	directive, err := NewMentor(client, "").Run(context.Background(), Input{})
	require.NoError(t, err)
	assert.True(t, directive.Terminates())
}

func TestMentor_RejectsUnknownTone(t *testing.T) {
	client := jsonReply(`{"thought_process": "t", "strategy": "s", "instruction": "Ask", "tone": "Sarcastic"}`)

	_, err := NewMentor(client, "").Run(context.Background(), Input{})
	var malformed *MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	require.NotEmpty(t, malformed.Fields)
	assert.Equal(t, "tone", malformed.Fields[0].Field)
}

func TestInterviewer_DefaultsToNeutralTone(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierStandard, tier)
			assert.Contains(t, prompt, "Mentor's Desired Tone: Neutral")
			assert.Contains(t, prompt, "Mentor's Instruction: Ask about decorators")
			return "  Could you explain how decorators work?\n", nil
		},
	}

	text, err := NewInterviewer(client).Run(context.Background(), Input{Instruction: "Ask about decorators", History: historyOf(2)})
	require.NoError(t, err)
	assert.Equal(t, "Could you explain how decorators work?", text)
	assert.Equal(t, RoleInterviewer, NewInterviewer(client).Role())
}

func TestInterviewer_EmptyReply(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "   ", nil
		},
	}

	_, err := NewInterviewer(client).Run(context.Background(), Input{Instruction: "Ask"})
	var malformed *MalformedOutputError
	assert.True(t, errors.As(err, &malformed))
}

func TestJudge_RendersLastThreeEntries(t *testing.T) {
	client := jsonReply(`{"approved": false, "feedback": "Too long", "score": 4}`)

	verdict, err := NewJudge(client).Run(context.Background(), Input{
		History:           historyOf(6),
		Instruction:       "Ask one question",
		GeneratedResponse: "Here are five questions...",
	})
	require.NoError(t, err)
	assert.False(t, verdict.Approved)
	assert.Equal(t, 4, verdict.Score)

	prompt := client.prompts[0]
	assert.NotContains(t, prompt, "message-03")
	assert.Contains(t, prompt, "message-04")
	assert.Contains(t, prompt, "Interviewer Generated Response: Here are five questions...")
}

func TestSummarizer_RendersWholeHistory(t *testing.T) {
	client := jsonReply(`{"summary": "Candidate knows Python basics.", "key_points": ["claims 3 years"]}`)

	summary, err := NewSummarizer(client).Run(context.Background(), Input{History: historyOf(7)})
	require.NoError(t, err)
	assert.Equal(t, "Candidate knows Python basics.", summary.Summary)
	assert.Contains(t, client.prompts[0], "Candidate: message-01")
	assert.Contains(t, client.prompts[0], "Candidate: message-07")
}

func TestDecisionMaker_Decodes(t *testing.T) {
	client := jsonReply(`Here is my report: {"level": "Middle", "hiring_recommendation": "Hire", "confidence_score": 80,
		"hard_skills_confirmed": ["Python"], "knowledge_gaps": ["asyncio"], "soft_skills_assessment": "Clear",
		"personal_roadmap": ["Read about the event loop"]} Good luck!`)

	var transcript types.Transcript
	transcript = transcript.Append(types.RoleCandidate, "I use asyncio daily")

	report, err := NewDecisionMaker(client).Run(context.Background(), Input{Transcript: transcript})
	require.NoError(t, err)
	assert.Equal(t, types.LevelMiddle, report.Level)
	assert.Equal(t, types.RecommendHire, report.Recommendation)
	assert.Equal(t, 80, report.Confidence)
	assert.True(t, strings.Contains(client.prompts[0], "Candidate: I use asyncio daily"))
}

func TestWithTier(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierAdvanced, tier)
			return `{"summary": "s", "key_points": []}`, nil
		},
	}

	_, err := NewSummarizer(client, WithTier(llm.TierAdvanced)).Run(context.Background(), Input{})
	require.NoError(t, err)
}
