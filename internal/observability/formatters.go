// Package observability provides formatted output utilities for the CLI: the
// panel's reasoning while a session runs and the styled session log viewer.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/dialogue"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line into chunks of at most width runes, breaking on spaces when possible
func wrap(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}
	var out []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// HandleEvent prints the parts of a session progress event worth showing.
// It has the shape of interview.ProgressCallback.
func (p *Printer) HandleEvent(event interview.ProgressEvent) {
	switch content := event.Content.(type) {
	case types.History:
		p.PrintConsolidation(event.Turn, content)
	case analysis.Reports:
		p.PrintReports(event.Turn, content)
	case types.StrategyDirective:
		p.PrintDirective(event.Turn, content)
	case dialogue.Attempt:
		p.PrintAttempt(event.Turn, content)
	case types.FinalDecisionReport:
		p.PrintDecision(&content)
	}
}

// PrintConsolidation outputs the history left after a consolidation.
func (p *Printer) PrintConsolidation(turn int, history types.History) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("History compacted to %d entries\n\n", history.Len()))
	for _, entry := range history {
		sb.WriteString(fmt.Sprintf("%s: %s\n", entry.Role, truncate(entry.Content, 120)))
	}
	p.printBox(fmt.Sprintf("TURN %d · MEMORY", turn), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReports outputs the fact check and the psychological profile.
func (p *Printer) PrintReports(turn int, reports analysis.Reports) {
	var sb strings.Builder

	fc := reports.FactCheck
	sb.WriteString(fmt.Sprintf("Verdict:  %s\n", fc.Verdict))
	if fc.Evidence != "" {
		sb.WriteString(fmt.Sprintf("Evidence: %s\n", fc.Evidence))
	}
	if fc.Correction != nil && *fc.Correction != "" {
		sb.WriteString(fmt.Sprintf("Fix:      %s\n", *fc.Correction))
	}
	sb.WriteString("\n")

	psych := reports.Psych
	sb.WriteString(fmt.Sprintf("Mood:     %s\n", psych.EmotionalState))
	sb.WriteString(fmt.Sprintf("Style:    %s\n", psych.CommunicationStyle))
	writeList(&sb, "Soft skills", psych.SoftSkills)
	writeList(&sb, "Stress markers", psych.StressMarkers)

	p.printBox(fmt.Sprintf("TURN %d · ANALYSIS", turn), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDirective outputs the mentor's plan.
func (p *Printer) PrintDirective(turn int, directive types.StrategyDirective) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Thinking:    %s\n", directive.ThoughtProcess))
	sb.WriteString(fmt.Sprintf("Strategy:    %s\n", directive.Strategy))
	sb.WriteString(fmt.Sprintf("Instruction: %s\n", directive.Instruction))
	sb.WriteString(fmt.Sprintf("Tone:        %s", directive.Tone))
	if directive.Terminates() {
		sb.WriteString("\n\n⏹ Mentor ends the interview after this turn")
	}
	p.printBox(fmt.Sprintf("TURN %d · STRATEGY", turn), sb.String())
}

// PrintAttempt outputs one judged generation attempt.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAttempt(turn int, attempt dialogue.Attempt) {
	mark := "✗"
	if attempt.Verdict.Approved {
		mark = "✓"
	}
	fmt.Fprintf(p.out, "  [turn %d] attempt %d %s score %d/10\n",
		turn, attempt.Number, mark, attempt.Verdict.Score)
	if !attempt.Verdict.Approved && attempt.Verdict.Feedback != "" {
		fmt.Fprintf(p.out, "           feedback: %s\n", attempt.Verdict.Feedback)
	}
}

// PrintDecision outputs the final hiring decision.
func (p *Printer) PrintDecision(report *types.FinalDecisionReport) {
	if report == nil {
		return
	}
	p.printBox("FINAL DECISION", FormatDecision(report))
}

// FormatDecision renders a decision report as plain text
func FormatDecision(report *types.FinalDecisionReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:          %s\n", report.Level))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", report.Recommendation))
	sb.WriteString(fmt.Sprintf("Confidence:     %d%%\n", report.Confidence))
	writeList(&sb, "Confirmed skills", report.HardSkillsConfirmed)
	writeList(&sb, "Knowledge gaps", report.KnowledgeGaps)
	if report.SoftSkillsAssessment != "" {
		sb.WriteString(fmt.Sprintf("\nSoft skills: %s\n", report.SoftSkillsAssessment))
	}
	writeList(&sb, "Roadmap", report.Roadmap)
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
