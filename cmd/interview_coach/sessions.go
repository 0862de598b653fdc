package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/sessionlog"
)

var sessionsCommand = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List sessions stored in the database, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionsCmd,
}

var (
	sessionsLimit int
	sessionsDBURL string
)

func init() {
	sessionsCommand.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Number of sessions to list")
	sessionsCommand.Flags().StringVar(&sessionsDBURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(sessionsCommand)
}

func runSessionsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if sessionsDBURL != "" {
		cfg.DatabaseURL = sessionsDBURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (use --db-url or set DATABASE_URL)")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session ID %q: %w", args[0], err)
		}
		log, err := database.LoadSessionLog(ctx, id)
		if err != nil {
			return err
		}
		if log == nil {
			return fmt.Errorf("session %s not found", id)
		}
		_, _ = fmt.Fprintln(out, observability.RenderDocument(&sessionlog.Document{SessionLog: log, Path: id.String()}))
		return nil
	}

	sessions, err := database.ListSessions(ctx, sessionsLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, "No sessions stored")
		return nil
	}
	for _, s := range sessions {
		status := "in progress"
		if s.CompletedAt != nil {
			status = "completed"
		}
		_, _ = fmt.Fprintf(out, "%s  %-20s %-11s %s  %s\n",
			s.ID, s.ParticipantName, s.Source, s.StartedAt.Format("2006-01-02 15:04"), status)
	}
	return nil
}
