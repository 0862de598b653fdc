package interview

import (
	"errors"
	"fmt"
)

// Turn steps named in TurnError and progress events
const (
	StepMemory   = "memory"
	StepAnalysis = "analysis"
	StepStrategy = "strategy"
	StepDialogue = "dialogue"
)

// ErrSessionFinished is returned when a finished session is driven again
var ErrSessionFinished = errors.New("session already finished")

// TurnError wraps any failure inside one turn so the session loop can apply
// its abort/skip policy.
type TurnError struct {
	Turn  int
	Step  string
	Cause error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d failed at %s step: %v", e.Turn, e.Step, e.Cause)
}

func (e *TurnError) Unwrap() error {
	return e.Cause
}
