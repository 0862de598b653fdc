// Package analysis runs the two independent reads of the latest candidate message.
package analysis

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/agents"
	"github.com/jonathan/interview-coach/internal/types"
)

// Reports holds both analyses of one candidate message
type Reports struct {
	FactCheck types.FactCheckReport
	Psych     types.PsychProfile
}

// Analyzer runs the fact checker and the psychologist concurrently
type Analyzer struct {
	factChecker  agents.Agent[types.FactCheckReport]
	psychologist agents.Agent[types.PsychProfile]
}

// NewAnalyzer creates an Analyzer
func NewAnalyzer(factChecker agents.Agent[types.FactCheckReport], psychologist agents.Agent[types.PsychProfile]) *Analyzer {
	return &Analyzer{factChecker: factChecker, psychologist: psychologist}
}

// Run analyzes message. Both calls have returned when Run returns; if either
// failed the error is returned and the reports are unusable.
func (a *Analyzer) Run(ctx context.Context, message string) (Reports, error) {
	g, gCtx := errgroup.WithContext(ctx)
	in := agents.Input{UserMessage: message}

	var reports Reports
	var mu sync.Mutex

	g.Go(func() error {
		report, err := a.factChecker.Run(gCtx, in)
		if err != nil {
			return fmt.Errorf("fact check failed: %w", err)
		}
		mu.Lock()
		reports.FactCheck = report
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		profile, err := a.psychologist.Run(gCtx, in)
		if err != nil {
			return fmt.Errorf("psychological analysis failed: %w", err)
		}
		mu.Lock()
		reports.Psych = profile
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return Reports{}, err
	}
	return reports, nil
}
