package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is implemented by every structured report exchanged between agents.
type Record interface {
	// RecordName is the label used when the record is embedded in notes
	RecordName() string
}

// RecordName implements Record
func (FactCheckReport) RecordName() string { return "Fact-Checker" }

// RecordName implements Record
func (PsychProfile) RecordName() string { return "Psychologist" }

// RecordName implements Record
func (StrategyDirective) RecordName() string { return "Mentor" }

// RecordName implements Record
func (JudgeVerdict) RecordName() string { return "Judge" }

// RecordName implements Record
func (FinalDecisionReport) RecordName() string { return "Decision-Maker" }

// RecordName implements Record
func (ConversationSummary) RecordName() string { return "Summarizer" }

// Canonical is the single text form of a structured record, used both in
// prompts and in persisted internal notes: compact single-line JSON.
func Canonical(r Record) string {
	if r == nil {
		return "N/A"
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(data)
}

// InternalNotes collects the hidden reasoning of one turn
type InternalNotes struct {
	FactCheck *FactCheckReport
	Psych     *PsychProfile
	Strategy  *StrategyDirective
	Verdicts  []JudgeVerdict
}

// String renders the notes one agent per line, "[Agent]: payload".
func (n InternalNotes) String() string {
	var lines []string
	if n.FactCheck != nil {
		lines = append(lines, noteLine(*n.FactCheck))
	}
	if n.Psych != nil {
		lines = append(lines, noteLine(*n.Psych))
	}
	if n.Strategy != nil {
		lines = append(lines, noteLine(*n.Strategy))
	}
	if len(n.Verdicts) > 0 {
		parts := make([]string, len(n.Verdicts))
		for i, v := range n.Verdicts {
			parts[i] = fmt.Sprintf("attempt %d %s", i+1, Canonical(v))
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", JudgeVerdict{}.RecordName(), strings.Join(parts, " | ")))
	}
	return strings.Join(lines, "\n")
}

func noteLine(r Record) string {
	return fmt.Sprintf("[%s]: %s", r.RecordName(), Canonical(r))
}

// Transcript is the never-compacted record of a session, fed to the final decision.
type Transcript []Entry

// Append returns a new transcript with the entry added.
func (t Transcript) Append(role Role, content string) Transcript {
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, Entry{Role: role, Content: content})
}

// Text renders the transcript as "Role: content" lines.
func (t Transcript) Text() string {
	return History(t).Format()
}
