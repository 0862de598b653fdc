// Package sessionlog persists interview sessions as JSON documents and reads
// them back for viewing and reformatting.
package sessionlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// DefaultDir is where session logs are written unless configured otherwise
	DefaultDir = "interview"
	// DefaultFileName is the log of an interactive session
	DefaultFileName = "interview_log.json"
)

// ScenarioFileName returns the log file name of a scripted scenario
func ScenarioFileName(name string) string {
	return fmt.Sprintf("scenario_%s.json", name)
}

// Save writes log to path as indented JSON, replacing any previous content.
// The document is written to a temporary file in the same directory and
// renamed into place so readers never observe a partial write.
func Save(path string, log *types.SessionLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary log file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Document is a session log read back from disk
type Document struct {
	*types.SessionLog
	Path string
	// FeedbackText holds a final_feedback written as free text rather than a report
	FeedbackText string
}

// storedLog decodes final_feedback and start_time separately since older
// logs stored the feedback as text and the start time without a zone.
type storedLog struct {
	*sessionLogAlias
	StartTime     string          `json:"start_time"`
	FinalFeedback json.RawMessage `json:"final_feedback"`
}

// startTimeLayouts are tried in order; zoneless times are read as local time
var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

func parseStartTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var firstErr error
	for _, layout := range startTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

type sessionLogAlias types.SessionLog

// Read loads a session log
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session log %s: %w", path, err)
	}

	log := &types.SessionLog{}
	stored := storedLog{sessionLogAlias: (*sessionLogAlias)(log)}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse session log %s: %w", path, err)
	}

	start, err := parseStartTime(stored.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start_time in %s: %w", path, err)
	}
	log.StartTime = start

	doc := &Document{SessionLog: log, Path: path}
	raw := strings.TrimSpace(string(stored.FinalFeedback))
	switch {
	case raw == "" || raw == "null":
	case strings.HasPrefix(raw, "{"):
		var report types.FinalDecisionReport
		if err := json.Unmarshal(stored.FinalFeedback, &report); err != nil {
			return nil, fmt.Errorf("failed to parse final feedback in %s: %w", path, err)
		}
		log.FinalFeedback = &report
	default:
		var text string
		if err := json.Unmarshal(stored.FinalFeedback, &text); err != nil {
			return nil, fmt.Errorf("failed to parse final feedback in %s: %w", path, err)
		}
		doc.FeedbackText = text
	}
	return doc, nil
}

// List returns the JSON files of dir, sorted by name
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
