package agents

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/schemas"
)

// MalformedOutputError is returned when a model reply cannot be turned into
// the role's structured record.
type MalformedOutputError struct {
	Role    Role
	Message string
	Raw     string
	Fields  []schemas.FieldError
	Cause   error
}

func (e *MalformedOutputError) Error() string {
	msg := fmt.Sprintf("%s returned malformed output: %s", e.Role, e.Message)
	switch {
	case len(e.Fields) > 0:
		msg += fmt.Sprintf(" (%d field errors, first: %s: %s)", len(e.Fields), e.Fields[0].Field, e.Fields[0].Message)
	case e.Cause != nil:
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
