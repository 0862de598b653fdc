package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/scenarios"
)

var scenarioCommand = &cobra.Command{
	Use:   "scenario <scenarios.yaml>",
	Short: "Run scripted interviews from a YAML file",
	Long: `Runs every scenario of the file as an independent session. Each scenario writes its own
log to <log-dir>/scenario_<name>.json. Scenarios share no state, so --parallel may run several at once.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenarioCmd,
}

var (
	scenarioFlags    sessionFlags
	scenarioParallel int
)

func init() {
	addSessionFlags(scenarioCommand, &scenarioFlags)
	scenarioCommand.Flags().IntVarP(&scenarioParallel, "parallel", "p", 1, "Number of scenarios run concurrently")

	rootCmd.AddCommand(scenarioCommand)
}

func runScenarioCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	list, err := scenarios.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, &scenarioFlags)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	runner := &scenarios.Runner{
		Panel:    a.panel,
		Dir:      cfg.LogDir,
		Parallel: scenarioParallel,
		Session:  a.sessionOptions(),
		Logger:   logger,
		Recorder: func(scenarios.Scenario) interview.Recorder {
			return a.recorder(db.SourceScenario)
		},
		OnProgress: func(name string, e interview.ProgressEvent) {
			switch e.Step {
			case interview.EventStarted:
				_, _ = fmt.Fprintf(out, "=== Running scenario: %s ===\n", name)
			case interview.EventTurn:
				_, _ = fmt.Fprintf(out, "[%s] turn %d interviewer: %s\n", name, e.Turn, e.Message)
			case interview.EventSkipped:
				_, _ = fmt.Fprintf(out, "[%s] %s\n", name, e.Message)
			}
			if cfg.Verbose || verbose {
				printer.HandleEvent(e)
			}
		},
	}

	results, err := runner.Run(ctx, list)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	for _, r := range results {
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(out, "✗ %s: %v\n", r.Scenario, r.Err)
		case r.Log != nil && r.Log.FinalFeedback != nil:
			_, _ = fmt.Fprintf(out, "✓ %s: %s, %s (%d%%) → %s\n", r.Scenario,
				r.Log.FinalFeedback.Level, r.Log.FinalFeedback.Recommendation,
				r.Log.FinalFeedback.Confidence, r.Path)
		default:
			_, _ = fmt.Fprintf(out, "✓ %s → %s\n", r.Scenario, r.Path)
		}
	}

	if failed := scenarios.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
