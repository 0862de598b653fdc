// Package main provides the entry point for the interview coach CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/logging"
)

var (
	configPath string
	verbose    bool
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "interview_coach",
	Short: "Multi-agent technical interview simulator",
	Long: `Interview Coach runs a simulated technical interview with a panel of language-model agents:
a fact checker and a psychologist read every answer, a mentor plans the next question, an
interviewer asks it, a judge reviews the wording, and a decision maker issues the final verdict.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		built, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print the panel's reasoning and debug logs")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
