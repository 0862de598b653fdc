package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/sessionlog"
)

var interviewCommand = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive interview in the terminal",
	Long: `Prompts for the participant name, then reads one answer per line from stdin until the
stop word (STOP by default) or end of input. The session log is rewritten after every turn.`,
	RunE: runInterviewCmd,
}

var (
	interviewFlags sessionFlags
	interviewName  string
	interviewLog   string
)

func init() {
	addSessionFlags(interviewCommand, &interviewFlags)
	interviewCommand.Flags().StringVarP(&interviewName, "name", "n", "", "Participant name (prompted when empty)")
	interviewCommand.Flags().StringVarP(&interviewLog, "output", "o", "", "Session log path (defaults to <log-dir>/interview_log.json)")

	rootCmd.AddCommand(interviewCommand)
}

func runInterviewCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadSettings(cmd, &interviewFlags)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	name := interviewName
	if name == "" {
		name, err = promptLine(in, out, "Enter your name: ")
		if err != nil {
			return err
		}
	}

	logPath := interviewLog
	if logPath == "" {
		logPath = filepath.Join(cfg.LogDir, sessionlog.DefaultFileName)
	}

	recorders := interview.MultiRecorder{sessionlog.NewFileRecorder(logPath)}
	if r := a.recorder(db.SourceInteractive); r != nil {
		recorders = append(recorders, r)
	}

	printer := observability.NewPrinter(out)
	opts := a.sessionOptions()
	opts.Recorder = recorders
	opts.OnProgress = func(e interview.ProgressEvent) {
		if cfg.Verbose || verbose {
			printer.HandleEvent(e)
		}
		if e.Step == interview.EventTurn {
			_, _ = fmt.Fprintf(out, "\nInterviewer: %s\n\n", e.Message)
		}
	}

	_, _ = fmt.Fprintf(out, "\nInterviewer: %s\n", interview.OpeningLine)
	_, _ = fmt.Fprintf(out, "(type %s to finish)\n\n", cfg.StopWord)

	session := interview.NewSession(name, a.panel, opts)
	log, err := session.Run(ctx, interview.NewReaderSource(in, out, "You: "))
	if err != nil {
		return fmt.Errorf("interview failed: %w", err)
	}

	if !(cfg.Verbose || verbose) {
		printer.PrintDecision(log.FinalFeedback)
	}
	_, _ = fmt.Fprintf(out, "Session log saved to %s\n", logPath)
	return nil
}

// promptLine writes prompt and reads one trimmed line
func promptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
