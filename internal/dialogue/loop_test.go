package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedInterviewer returns "reply N" for the Nth call and records instructions
type scriptedInterviewer struct {
	calls        int
	instructions []string
	tones        []types.Tone
	failAt       int
}

func (s *scriptedInterviewer) Role() agents.Role { return agents.RoleInterviewer }

func (s *scriptedInterviewer) Run(_ context.Context, in agents.Input) (string, error) {
	s.calls++
	s.instructions = append(s.instructions, in.Instruction)
	s.tones = append(s.tones, in.Tone)
	if s.failAt == s.calls {
		return "", errors.New("connection reset")
	}
	return fmt.Sprintf("reply %d", s.calls), nil
}

// scriptedJudge approves according to a fixed script; calls past the script reject
type scriptedJudge struct {
	approvals []bool
	calls     int
	responses []string
	failAt    int
}

func (j *scriptedJudge) Role() agents.Role { return agents.RoleJudge }

func (j *scriptedJudge) Run(_ context.Context, in agents.Input) (types.JudgeVerdict, error) {
	j.calls++
	j.responses = append(j.responses, in.GeneratedResponse)
	if j.failAt == j.calls {
		return types.JudgeVerdict{}, errors.New("schema violation")
	}
	approved := j.calls <= len(j.approvals) && j.approvals[j.calls-1]
	return types.JudgeVerdict{
		Approved: approved,
		Feedback: fmt.Sprintf("fix %d", j.calls),
		Score:    5,
	}, nil
}

var directive = types.StrategyDirective{
	ThoughtProcess: "candidate is vague",
	Strategy:       "dig deeper",
	Instruction:    "Ask how the GIL affects threads",
	Tone:           types.ToneStrict,
}

func TestRun_ApprovedOnFirstAttempt(t *testing.T) {
	interviewer := &scriptedInterviewer{}
	judge := &scriptedJudge{approvals: []bool{true}}

	outcome, err := NewLoop(interviewer, judge, Options{}).Run(context.Background(), directive, nil)
	require.NoError(t, err)

	assert.Equal(t, StateApproved, outcome.State)
	assert.True(t, outcome.Approved())
	assert.Equal(t, "reply 1", outcome.Text)
	assert.Equal(t, 1, interviewer.calls)
	assert.Equal(t, 1, judge.calls)
	assert.Equal(t, []string{directive.Instruction}, interviewer.instructions)
	assert.Equal(t, []types.Tone{types.ToneStrict}, interviewer.tones)
}

func TestRun_ApprovedOnRetry(t *testing.T) {
	interviewer := &scriptedInterviewer{}
	judge := &scriptedJudge{approvals: []bool{false, true}}

	outcome, err := NewLoop(interviewer, judge, Options{}).Run(context.Background(), directive, nil)
	require.NoError(t, err)

	assert.Equal(t, StateApproved, outcome.State)
	assert.Equal(t, "reply 2", outcome.Text)
	require.Len(t, outcome.Attempts, 2)
	assert.Equal(t, []string{"reply 1", "reply 2"}, judge.responses)
}

func TestRun_ExhaustedAcceptsLastText(t *testing.T) {
	interviewer := &scriptedInterviewer{}
	judge := &scriptedJudge{}

	outcome, err := NewLoop(interviewer, judge, Options{}).Run(context.Background(), directive, nil)
	require.NoError(t, err)

	assert.Equal(t, StateExhausted, outcome.State)
	assert.False(t, outcome.Approved())
	assert.Equal(t, "reply 2", outcome.Text)
	assert.Equal(t, DefaultMaxAttempts, interviewer.calls)
	assert.Equal(t, DefaultMaxAttempts, judge.calls)
	assert.Len(t, outcome.Verdicts(), DefaultMaxAttempts)
}

func TestRun_CallCountsStayWithinBudget(t *testing.T) {
	for maxAttempts := 1; maxAttempts <= 4; maxAttempts++ {
		for approveAt := 0; approveAt <= maxAttempts+1; approveAt++ {
			t.Run(fmt.Sprintf("max %d approve at %d", maxAttempts, approveAt), func(t *testing.T) {
				approvals := make([]bool, approveAt)
				if approveAt > 0 {
					approvals[approveAt-1] = true
				}
				interviewer := &scriptedInterviewer{}
				judge := &scriptedJudge{approvals: approvals}

				outcome, err := NewLoop(interviewer, judge, Options{MaxAttempts: maxAttempts}).
					Run(context.Background(), directive, nil)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, interviewer.calls, 1)
				assert.LessOrEqual(t, interviewer.calls, maxAttempts)
				assert.Equal(t, interviewer.calls, judge.calls)
				assert.Equal(t, fmt.Sprintf("reply %d", interviewer.calls), outcome.Text)
			})
		}
	}
}

func TestRun_RetryKeepsOriginalInstruction(t *testing.T) {
	interviewer := &scriptedInterviewer{}
	judge := &scriptedJudge{}

	_, err := NewLoop(interviewer, judge, Options{MaxAttempts: 3}).Run(context.Background(), directive, nil)
	require.NoError(t, err)

	require.Len(t, interviewer.instructions, 3)
	assert.Equal(t, directive.Instruction, interviewer.instructions[0])
	for i, instruction := range interviewer.instructions[1:] {
		assert.True(t, strings.HasPrefix(instruction, directive.Instruction))
		assert.Contains(t, instruction, types.FeedbackMarker+fmt.Sprintf("fix %d", i+1))
		assert.NotContains(t, instruction, "fix "+fmt.Sprint(i), "feedback does not accumulate across retries")
	}
	assert.Equal(t, "Ask how the GIL affects threads", directive.Instruction, "directive is not mutated")
	for _, tone := range interviewer.tones {
		assert.Equal(t, types.ToneStrict, tone)
	}
}

func TestRun_TransitionsAndAttemptCallbacks(t *testing.T) {
	var states []State
	var attempts []Attempt
	loop := NewLoop(&scriptedInterviewer{}, &scriptedJudge{approvals: []bool{false, true}}, Options{
		OnTransition: func(s State, _ int) { states = append(states, s) },
		OnAttempt:    func(a Attempt) { attempts = append(attempts, a) },
	})

	_, err := loop.Run(context.Background(), directive, nil)
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateGenerating, StateJudging, StateRetrying,
		StateGenerating, StateJudging, StateApproved,
	}, states)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[1].Number)
	assert.True(t, attempts[1].Verdict.Approved)
}

func TestRun_GenerationFailurePropagates(t *testing.T) {
	interviewer := &scriptedInterviewer{failAt: 2}
	judge := &scriptedJudge{}

	_, err := NewLoop(interviewer, judge, Options{MaxAttempts: 3}).Run(context.Background(), directive, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at attempt 2")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, judge.calls)
}

func TestRun_JudgeFailurePropagates(t *testing.T) {
	interviewer := &scriptedInterviewer{}
	judge := &scriptedJudge{failAt: 1}

	outcome, err := NewLoop(interviewer, judge, Options{}).Run(context.Background(), directive, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to judge response at attempt 1")
	assert.Empty(t, outcome.Attempts)
	assert.Equal(t, 1, interviewer.calls)
}
