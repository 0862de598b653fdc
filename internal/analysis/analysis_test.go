package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type funcAgent[T any] struct {
	role agents.Role
	run  func(ctx context.Context, in agents.Input) (T, error)
}

func (f funcAgent[T]) Role() agents.Role { return f.role }

func (f funcAgent[T]) Run(ctx context.Context, in agents.Input) (T, error) {
	return f.run(ctx, in)
}

func factChecker(run func(ctx context.Context, in agents.Input) (types.FactCheckReport, error)) agents.Agent[types.FactCheckReport] {
	return funcAgent[types.FactCheckReport]{role: agents.RoleFactChecker, run: run}
}

func psychologist(run func(ctx context.Context, in agents.Input) (types.PsychProfile, error)) agents.Agent[types.PsychProfile] {
	return funcAgent[types.PsychProfile]{role: agents.RolePsychologist, run: run}
}

func TestRun_BothReportsReturned(t *testing.T) {
	defer goleak.VerifyNone(t)

	analyzer := NewAnalyzer(
		factChecker(func(_ context.Context, in agents.Input) (types.FactCheckReport, error) {
			assert.Equal(t, "Tuples are immutable", in.UserMessage)
			return types.FactCheckReport{Verdict: types.VerdictTrue, Evidence: "correct"}, nil
		}),
		psychologist(func(_ context.Context, in agents.Input) (types.PsychProfile, error) {
			assert.Equal(t, "Tuples are immutable", in.UserMessage)
			return types.PsychProfile{EmotionalState: "calm"}, nil
		}),
	)

	reports, err := analyzer.Run(context.Background(), "Tuples are immutable")
	require.NoError(t, err)
	assert.Equal(t, types.VerdictTrue, reports.FactCheck.Verdict)
	assert.Equal(t, "calm", reports.Psych.EmotionalState)
}

func TestRun_CallsOverlap(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Each agent waits for the other to start; a sequential implementation would deadlock
	var started sync.WaitGroup
	started.Add(2)
	wait := func() error {
		started.Done()
		done := make(chan struct{})
		go func() {
			started.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("calls did not overlap")
		}
	}

	analyzer := NewAnalyzer(
		factChecker(func(_ context.Context, _ agents.Input) (types.FactCheckReport, error) {
			return types.FactCheckReport{Verdict: types.VerdictOpinion}, wait()
		}),
		psychologist(func(_ context.Context, _ agents.Input) (types.PsychProfile, error) {
			return types.PsychProfile{}, wait()
		}),
	)

	_, err := analyzer.Run(context.Background(), "I prefer Go over Python")
	assert.NoError(t, err)
}

func TestRun_FailureIsSurfaced(t *testing.T) {
	defer goleak.VerifyNone(t)

	psychDone := make(chan struct{})
	analyzer := NewAnalyzer(
		factChecker(func(_ context.Context, _ agents.Input) (types.FactCheckReport, error) {
			return types.FactCheckReport{}, errors.New("corpus unavailable")
		}),
		psychologist(func(ctx context.Context, _ agents.Input) (types.PsychProfile, error) {
			defer close(psychDone)
			<-ctx.Done()
			return types.PsychProfile{}, ctx.Err()
		}),
	)

	reports, err := analyzer.Run(context.Background(), "Python 4.0 was released last year")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fact check failed")
	assert.Equal(t, Reports{}, reports)

	select {
	case <-psychDone:
	default:
		t.Fatal("Run returned before the psychologist finished")
	}
}

func TestRun_PsychFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	analyzer := NewAnalyzer(
		factChecker(func(_ context.Context, _ agents.Input) (types.FactCheckReport, error) {
			return types.FactCheckReport{Verdict: types.VerdictTrue}, nil
		}),
		psychologist(func(_ context.Context, _ agents.Input) (types.PsychProfile, error) {
			return types.PsychProfile{}, errors.New("malformed output")
		}),
	)

	_, err := analyzer.Run(context.Background(), "I have five years of Django")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "psychological analysis failed")
}
