package interview

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Source yields candidate messages. ok is false once the source is exhausted.
type Source interface {
	Next(ctx context.Context) (message string, ok bool, err error)
}

// SliceSource replays a fixed list of messages
type SliceSource struct {
	messages []string
	pos      int
}

// NewSliceSource creates a SliceSource over messages
func NewSliceSource(messages []string) *SliceSource {
	return &SliceSource{messages: messages}
}

// Next implements Source
func (s *SliceSource) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s.pos >= len(s.messages) {
		return "", false, nil
	}
	msg := s.messages[s.pos]
	s.pos++
	return msg, true, nil
}

// ReaderSource reads one message per line, writing Prompt to Out before each read.
type ReaderSource struct {
	scanner *bufio.Scanner
	prompt  string
	out     io.Writer
}

// NewReaderSource creates a ReaderSource. out may be nil.
func NewReaderSource(in io.Reader, out io.Writer, prompt string) *ReaderSource {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReaderSource{scanner: scanner, prompt: prompt, out: out}
}

// Next implements Source
func (r *ReaderSource) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if r.out != nil && r.prompt != "" {
		fmt.Fprint(r.out, r.prompt) //nolint:errcheck // prompt output is best-effort
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("failed to read candidate input: %w", err)
		}
		return "", false, nil
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), true, nil
}

// IsStop reports whether message is the stop word, ignoring case and
// surrounding whitespace.
func IsStop(message, stopWord string) bool {
	return stopWord != "" && strings.EqualFold(strings.TrimSpace(message), stopWord)
}
