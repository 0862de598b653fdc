package observability

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/interview-coach/internal/sessionlog"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	turnStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	candidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	agentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	notesStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).PaddingLeft(2)
	decisionStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// RenderDocument renders a session log turn by turn, with the internal notes
// of every turn and the final decision.
func RenderDocument(doc *sessionlog.Document) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("SESSION · %s · %s",
		doc.ParticipantName, filepath.Base(doc.Path))))
	sb.WriteString("\n")
	if !doc.StartTime.IsZero() {
		sb.WriteString(agentStyle.Render("Started " + doc.StartTime.Format("2006-01-02 15:04:05")))
		sb.WriteString("\n")
	}

	for _, turn := range doc.Turns {
		sb.WriteString("\n")
		sb.WriteString(turnStyle.Render(fmt.Sprintf("Turn %d", turn.Index)))
		sb.WriteString("\n")
		sb.WriteString(candidateStyle.Render("Candidate:   " + turn.CandidateMessage))
		sb.WriteString("\n")
		sb.WriteString(agentStyle.Render("Interviewer: " + turn.VisibleMessage))
		sb.WriteString("\n")
		if notes := sessionlog.FormatThoughts(turn.InternalNotes); notes != "" {
			sb.WriteString(notesStyle.Render(notes))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	switch {
	case doc.FinalFeedback != nil:
		sb.WriteString(decisionStyle.Render(headerStyle.Render("FINAL DECISION") + "\n" + FormatDecision(doc.FinalFeedback)))
	case doc.FeedbackText != "":
		sb.WriteString(decisionStyle.Render(headerStyle.Render("FINAL FEEDBACK") + "\n" + doc.FeedbackText))
	default:
		sb.WriteString(warnStyle.Render("No final decision recorded"))
	}
	sb.WriteString("\n")

	return sb.String()
}
