package sessionlog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// agentTag matches "[Agent]:" at the start of a line or after a "|" separator,
// so bracketed text inside a payload is not taken for a tag.
var agentTag = regexp.MustCompile(`(?m)(?:^|\|)[ \t]*(\[[^\]\n]+\]:)`)

// FormatThoughts lays out internal notes one "[Agent]: text" segment per
// line. Text before the first tag and tags with no text are dropped; input
// without any tag is returned unchanged.
func FormatThoughts(notes string) string {
	if notes == "" {
		return notes
	}
	notes = strings.ReplaceAll(notes, "\r\n", "\n")

	tags := agentTag.FindAllStringSubmatchIndex(notes, -1)
	if len(tags) == 0 {
		return notes
	}

	lines := make([]string, 0, len(tags))
	for i, loc := range tags {
		end := len(notes)
		if i+1 < len(tags) {
			end = tags[i+1][0]
		}
		text := strings.TrimSpace(notes[loc[1]:end])
		if text == "" {
			continue
		}
		lines = append(lines, notes[loc[2]:loc[3]]+" "+text)
	}
	return strings.Join(lines, "\n")
}

// Reformat rewrites the internal notes of every turn in the log at path with
// FormatThoughts. Unknown fields are preserved. The file is only rewritten
// when something changed.
func Reformat(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read session log %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("failed to parse session log %s: %w", path, err)
	}

	turns, _ := doc["turns"].([]any)
	modified := false
	for _, t := range turns {
		turn, ok := t.(map[string]any)
		if !ok {
			continue
		}
		original, ok := turn["internal_thoughts"].(string)
		if !ok {
			continue
		}
		if formatted := FormatThoughts(original); formatted != original {
			turn["internal_thoughts"] = formatted
			modified = true
		}
	}
	if !modified {
		return false, nil
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal session log: %w", err)
	}
	if err := writeAtomic(path, out); err != nil {
		return false, err
	}
	return true, nil
}
