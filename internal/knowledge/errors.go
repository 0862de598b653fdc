package knowledge

import (
	"errors"
	"fmt"
)

// ErrQueryTooShort is matched by errors.Is for queries below the minimum length
var ErrQueryTooShort = errors.New("query is too short to verify")

// MalformedInputError is returned when a query falls outside the accepted bounds
type MalformedInputError struct {
	Query     string
	MinLength int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("query %q is shorter than %d characters", e.Query, e.MinLength)
}

// Unwrap lets errors.Is(err, ErrQueryTooShort) succeed
func (e *MalformedInputError) Unwrap() error {
	return ErrQueryTooShort
}

// CorpusUnavailableError represents a failed lookup against the fact index
type CorpusUnavailableError struct {
	Message string
	Cause   error
}

func (e *CorpusUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("knowledge corpus unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("knowledge corpus unavailable: %s", e.Message)
}

func (e *CorpusUnavailableError) Unwrap() error {
	return e.Cause
}
