package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/knowledge"
)

var kbCommand = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the knowledge base and the question bank",
}

var kbSearchCommand = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the facts the fact checker would see for a statement",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKBSearchCmd,
}

var kbAddCommand = &cobra.Command{
	Use:   "add <fact...>",
	Short: "Add facts to an on-disk knowledge index",
	Long:  "Indexes each argument as one fact. Requires --knowledge-path (or knowledge_path in the config) so the facts outlive the command.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKBAddCmd,
}

var kbQuestionsCommand = &cobra.Command{
	Use:   "questions",
	Short: "List questions by topic and level",
	RunE:  runKBQuestionsCmd,
}

var (
	kbLimit  int
	kbPath   string
	kbSource string
	kbTopic  string
	kbLevel  string
)

func init() {
	kbSearchCommand.Flags().IntVarP(&kbLimit, "limit", "k", knowledge.DefaultLimit, "Number of snippets")
	kbSearchCommand.Flags().StringVar(&kbPath, "knowledge-path", "", "On-disk knowledge index (empty keeps it in memory)")
	kbAddCommand.Flags().StringVar(&kbPath, "knowledge-path", "", "On-disk knowledge index")
	kbAddCommand.Flags().StringVar(&kbSource, "source", "custom", "Source label stored with the facts")
	kbQuestionsCommand.Flags().StringVar(&kbTopic, "topic", "", "Topic (python, sql, general); empty lists all")
	kbQuestionsCommand.Flags().StringVar(&kbLevel, "level", "", "Level (junior, middle, senior); empty lists all")

	kbCommand.AddCommand(kbSearchCommand)
	kbCommand.AddCommand(kbAddCommand)
	kbCommand.AddCommand(kbQuestionsCommand)
	rootCmd.AddCommand(kbCommand)
}

func runKBSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("knowledge-path") {
		cfg.KnowledgePath = kbPath
	}

	kb, err := openKnowledge(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = kb.Close() }()

	out := cmd.OutOrStdout()
	if count, err := kb.Count(); err == nil {
		_, _ = fmt.Fprintf(out, "Searching %d facts\n", count)
	}
	snippets, err := kb.Verify(cmd.Context(), strings.Join(args, " "), kbLimit)
	if errors.Is(err, knowledge.ErrQueryTooShort) {
		_, _ = fmt.Fprintln(out, knowledge.TooShortMessage)
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, knowledge.FormatSnippets(snippets))
	return nil
}

func runKBAddCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("knowledge-path") {
		cfg.KnowledgePath = kbPath
	}
	if cfg.KnowledgePath == "" {
		return fmt.Errorf("knowledge path is required (use --knowledge-path or set knowledge_path)")
	}

	kb, err := openKnowledge(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = kb.Close() }()

	if err := kb.Add(cmd.Context(), kbSource, args...); err != nil {
		return err
	}
	count, err := kb.Count()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d facts; the index now holds %d\n", len(args), count)
	return nil
}

func runKBQuestionsCmd(cmd *cobra.Command, _ []string) error {
	bank := knowledge.DefaultQuestions()
	out := cmd.OutOrStdout()

	topics := bank.Topics()
	if kbTopic != "" {
		topics = []string{kbTopic}
	}
	levels := knowledge.Levels
	if kbLevel != "" {
		levels = []string{kbLevel}
	}

	found := 0
	for _, topic := range topics {
		for _, level := range levels {
			questions := bank.Questions(topic, level)
			if len(questions) == 0 {
				continue
			}
			found += len(questions)
			_, _ = fmt.Fprintf(out, "%s / %s\n", topic, level)
			for _, q := range questions {
				_, _ = fmt.Fprintf(out, "  • %s\n", q)
			}
		}
	}
	if found == 0 {
		return fmt.Errorf("no questions for topic %q level %q", kbTopic, kbLevel)
	}
	return nil
}
