// Package agents implements the interview panel roles. Each role renders one
// prompt, makes exactly one model call and returns a typed result; agents keep
// no state between calls.
package agents

import (
	"context"

	"github.com/jonathan/interview-coach/internal/types"
)

// Role identifies a panel member. The value doubles as the prompt key.
type Role string

// Panel roles
const (
	RoleFactChecker   Role = "fact-checker"
	RolePsychologist  Role = "psychologist"
	RoleMentor        Role = "mentor"
	RoleInterviewer   Role = "interviewer"
	RoleJudge         Role = "judge"
	RoleSummarizer    Role = "summarizer"
	RoleDecisionMaker Role = "decision-maker"
)

// History windows rendered into prompts
const (
	MentorWindow      = 5
	InterviewerWindow = 5
	JudgeWindow       = 3
)

// Input is the per-call context handed to an agent. Each role reads only the
// fields it recognizes; a zero-valued field is a missing key and renders empty
// (or "N/A" for reports).
type Input struct {
	UserMessage       string
	History           types.History
	FactCheck         *types.FactCheckReport
	PsychProfile      *types.PsychProfile
	Instruction       string
	Tone              types.Tone
	GeneratedResponse string
	Transcript        types.Transcript
}

// Agent is the uniform invocation contract shared by every role.
type Agent[T any] interface {
	Role() Role
	Run(ctx context.Context, in Input) (T, error)
}

// Corpus is the fact source consulted by the fact checker.
type Corpus interface {
	Verify(ctx context.Context, query string, k int) ([]string, error)
}
