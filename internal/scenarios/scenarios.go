// Package scenarios runs scripted interviews from a YAML file. Every scenario
// is an independent session with its own log file.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/sessionlog"
	"github.com/jonathan/interview-coach/internal/types"
)

// Scenario is one scripted candidate
type Scenario struct {
	Name        string   `yaml:"name" validate:"required,excludesall=/\\"`
	Participant string   `yaml:"participant" validate:"required"`
	Inputs      []string `yaml:"inputs" validate:"required,min=1"`
}

// File is the YAML document holding the scenarios
type File struct {
	Scenarios []Scenario `yaml:"scenarios" validate:"required,min=1,unique=Name,dive"`
}

// Load reads and validates a scenario file
func Load(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML
func Parse(data []byte) ([]Scenario, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			return nil, fmt.Errorf("invalid scenario file: '%s' failed %s", ve.Namespace(), ve.Tag())
		}
		return nil, fmt.Errorf("invalid scenario file: %w", err)
	}
	return file.Scenarios, nil
}

// Result is the outcome of one scenario
type Result struct {
	Scenario string
	Path     string
	Log      *types.SessionLog
	Err      error
}

// Runner runs scenarios against one panel
type Runner struct {
	Panel interview.Panel
	// Dir receives one log file per scenario
	Dir string
	// Parallel is the number of scenarios run at once; values below 2 run them in order
	Parallel int
	// Session is the template for every session; Recorder and OnProgress are set per scenario
	Session interview.Options
	// Recorder, if set, returns an extra recorder for a scenario (e.g. the database)
	Recorder func(Scenario) interview.Recorder
	// OnProgress receives the events of every scenario, one call at a time
	OnProgress func(scenario string, event interview.ProgressEvent)
	Logger     *zap.Logger
}

// Run executes every scenario. A failed scenario is reported in its Result
// and does not stop the others; the returned error is only set when ctx ends.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(scenarios))
	var progressMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	if r.Parallel > 1 {
		g.SetLimit(r.Parallel)
	} else {
		g.SetLimit(1)
	}

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			path := filepath.Join(r.Dir, sessionlog.ScenarioFileName(sc.Name))
			opts := r.Session
			opts.Logger = logger.With(zap.String("scenario", sc.Name))

			recorders := interview.MultiRecorder{sessionlog.NewFileRecorder(path)}
			if r.Recorder != nil {
				if extra := r.Recorder(sc); extra != nil {
					recorders = append(recorders, extra)
				}
			}
			opts.Recorder = recorders

			if r.OnProgress != nil {
				name := sc.Name
				opts.OnProgress = func(event interview.ProgressEvent) {
					progressMu.Lock()
					defer progressMu.Unlock()
					r.OnProgress(name, event)
				}
			}

			session := interview.NewSession(sc.Participant, r.Panel, opts)
			log, err := session.Run(gCtx, interview.NewSliceSource(sc.Inputs))
			if err != nil {
				logger.Warn("scenario failed", zap.String("scenario", sc.Name), zap.Error(err))
			}

			// Each goroutine owns its own slot
			results[i] = Result{Scenario: sc.Name, Path: path, Log: log, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed counts the results with an error
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
