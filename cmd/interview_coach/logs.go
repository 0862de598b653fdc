package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/sessionlog"
)

var viewLogsCommand = &cobra.Command{
	Use:   "view-logs [log.json...]",
	Short: "Print session logs turn by turn",
	Long:  "Prints the given session logs, or every log in the log directory, with the internal notes of each turn and the final decision.",
	RunE:  runViewLogsCmd,
}

var reformatLogsCommand = &cobra.Command{
	Use:   "reformat-logs [log.json...]",
	Short: "Rewrite internal notes one agent per line",
	RunE:  runReformatLogsCmd,
}

var (
	logsDir      string
	viewValidate bool
)

func init() {
	for _, cmd := range []*cobra.Command{viewLogsCommand, reformatLogsCommand} {
		cmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (defaults to the configured log_dir)")
	}
	viewLogsCommand.Flags().BoolVar(&viewValidate, "validate", false, "Check every log against the session log schema")

	rootCmd.AddCommand(viewLogsCommand)
	rootCmd.AddCommand(reformatLogsCommand)
}

// logPaths returns the explicit arguments or the JSON files of the log directory
func logPaths(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	dir := logsDir
	if dir == "" {
		cfg, err := loadSettings(cmd, nil)
		if err != nil {
			return nil, err
		}
		dir = cfg.LogDir
	}

	paths, err := sessionlog.List(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no session logs found in %s", dir)
	}
	return paths, nil
}

func runViewLogsCmd(cmd *cobra.Command, args []string) error {
	paths, err := logPaths(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid, unreadable := 0, 0
	for _, path := range paths {
		if viewValidate {
			if err := schemas.ValidateFile(schemas.SessionLog, path); err != nil {
				invalid++
				var validationErr *schemas.ValidationError
				if errors.As(err, &validationErr) {
					_, _ = fmt.Fprintf(out, "✗ %s does not match the session log schema:\n", path)
					for _, fe := range validationErr.Errors {
						_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
					}
				} else {
					_, _ = fmt.Fprintf(out, "✗ %s: %v\n", path, err)
				}
				continue
			}
		}

		doc, err := sessionlog.Read(path)
		if err != nil {
			unreadable++
			_, _ = fmt.Fprintf(out, "✗ %v\n\n", err)
			continue
		}
		_, _ = fmt.Fprintln(out, observability.RenderDocument(doc))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d session logs failed validation", invalid, len(paths))
	}
	if unreadable > 0 {
		return fmt.Errorf("%d of %d session logs could not be read", unreadable, len(paths))
	}
	return nil
}

func runReformatLogsCmd(cmd *cobra.Command, args []string) error {
	paths, err := logPaths(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	changed := 0
	for _, path := range paths {
		modified, err := sessionlog.Reformat(path)
		if err != nil {
			return err
		}
		if modified {
			changed++
			_, _ = fmt.Fprintf(out, "Reformatted %s\n", path)
		}
	}
	_, _ = fmt.Fprintf(out, "%d of %d logs updated\n", changed, len(paths))
	return nil
}
