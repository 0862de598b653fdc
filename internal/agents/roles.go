package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/knowledge"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

const notAvailable = "N/A"

// Type aliases for the structured roles
type (
	FactChecker   = StructuredAgent[types.FactCheckReport]
	Psychologist  = StructuredAgent[types.PsychProfile]
	Mentor        = StructuredAgent[types.StrategyDirective]
	Judge         = StructuredAgent[types.JudgeVerdict]
	Summarizer    = StructuredAgent[types.ConversationSummary]
	DecisionMaker = StructuredAgent[types.FinalDecisionReport]
)

// NewFactChecker builds the fact checker. Up to k corpus snippets ground each verdict.
func NewFactChecker(client llm.Client, corpus Corpus, k int, opts ...Option) *FactChecker {
	return newStructured[types.FactCheckReport](RoleFactChecker, schemas.FactCheck, llm.TierLite, client,
		func(ctx context.Context, in Input) (map[string]string, error) {
			facts, err := lookupFacts(ctx, corpus, in.UserMessage, k)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"Facts":     facts,
				"Statement": in.UserMessage,
			}, nil
		}, opts)
}

// lookupFacts renders the corpus evidence for a statement. A query that is
// too short yields the fixed sentinel text instead of an error.
func lookupFacts(ctx context.Context, corpus Corpus, statement string, k int) (string, error) {
	if corpus == nil {
		return knowledge.NothingFoundMessage, nil
	}
	snippets, err := corpus.Verify(ctx, statement, k)
	if errors.Is(err, knowledge.ErrQueryTooShort) {
		return knowledge.TooShortMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("fact lookup failed: %w", err)
	}
	return knowledge.FormatSnippets(snippets), nil
}

// NewPsychologist builds the psychologist
func NewPsychologist(client llm.Client, opts ...Option) *Psychologist {
	return newStructured[types.PsychProfile](RolePsychologist, schemas.PsychProfile, llm.TierLite, client,
		func(_ context.Context, in Input) (map[string]string, error) {
			return map[string]string{"Statement": in.UserMessage}, nil
		}, opts)
}

// NewMentor builds the strategy role. questionBank is reference material
// rendered verbatim into every prompt.
func NewMentor(client llm.Client, questionBank string, opts ...Option) *Mentor {
	if strings.TrimSpace(questionBank) == "" {
		questionBank = notAvailable
	}
	mentor := newStructured[types.StrategyDirective](RoleMentor, schemas.StrategyDirective, llm.TierAdvanced, client,
		func(_ context.Context, in Input) (map[string]string, error) {
			return map[string]string{
				"History":      in.History.FormatLast(MentorWindow),
				"FactCheck":    canonicalFactCheck(in.FactCheck),
				"PsychProfile": canonicalPsych(in.PsychProfile),
				"QuestionBank": questionBank,
			}, nil
		}, opts)
	mentor.normalize = func(d *types.StrategyDirective) {
		if d.InterviewStatus == "" {
			d.InterviewStatus = types.StatusContinue
		}
	}
	return mentor
}

func canonicalFactCheck(r *types.FactCheckReport) string {
	if r == nil {
		return notAvailable
	}
	return types.Canonical(*r)
}

func canonicalPsych(p *types.PsychProfile) string {
	if p == nil {
		return notAvailable
	}
	return types.Canonical(*p)
}

// NewJudge builds the quality gate
func NewJudge(client llm.Client, opts ...Option) *Judge {
	return newStructured[types.JudgeVerdict](RoleJudge, schemas.JudgeVerdict, llm.TierStandard, client,
		func(_ context.Context, in Input) (map[string]string, error) {
			return map[string]string{
				"History":     in.History.FormatLast(JudgeWindow),
				"Instruction": in.Instruction,
				"Response":    in.GeneratedResponse,
			}, nil
		}, opts)
}

// NewSummarizer builds the role that condenses the whole history
func NewSummarizer(client llm.Client, opts ...Option) *Summarizer {
	return newStructured[types.ConversationSummary](RoleSummarizer, schemas.ConversationSummary, llm.TierLite, client,
		func(_ context.Context, in Input) (map[string]string, error) {
			return map[string]string{"History": in.History.Format()}, nil
		}, opts)
}

// NewDecisionMaker builds the role that grades the full transcript
func NewDecisionMaker(client llm.Client, opts ...Option) *DecisionMaker {
	return newStructured[types.FinalDecisionReport](RoleDecisionMaker, schemas.FinalDecision, llm.TierAdvanced, client,
		func(_ context.Context, in Input) (map[string]string, error) {
			return map[string]string{"Transcript": in.Transcript.Text()}, nil
		}, opts)
}

// Interviewer is the only role that replies with free text
type Interviewer struct {
	client llm.Client
	opts   options
}

// NewInterviewer builds the dialogue generator
func NewInterviewer(client llm.Client, opts ...Option) *Interviewer {
	return &Interviewer{
		client: client,
		opts:   buildOptions(llm.TierStandard, opts),
	}
}

// Role implements Agent
func (i *Interviewer) Role() Role {
	return RoleInterviewer
}

// Run generates the candidate-facing message for an instruction and tone.
func (i *Interviewer) Run(ctx context.Context, in Input) (string, error) {
	tone := in.Tone
	if tone == "" {
		tone = types.ToneNeutral
	}

	prompt, err := renderPrompt(RoleInterviewer, map[string]string{
		"Instruction": in.Instruction,
		"Tone":        string(tone),
		"History":     in.History.FormatLast(InterviewerWindow),
	})
	if err != nil {
		return "", err
	}

	i.opts.logger.Debug("agent call",
		zap.String("role", string(RoleInterviewer)),
		zap.String("tier", string(i.opts.tier)),
		zap.String("model", i.client.GetModel(i.opts.tier)))

	text, err := i.client.GenerateContent(ctx, prompt, i.opts.tier)
	if err != nil {
		return "", fmt.Errorf("%s call failed: %w", RoleInterviewer, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &MalformedOutputError{Role: RoleInterviewer, Message: "empty reply"}
	}
	return text, nil
}

// Compile-time checks that every role satisfies the contract
var (
	_ Agent[types.FactCheckReport]     = (*FactChecker)(nil)
	_ Agent[types.PsychProfile]        = (*Psychologist)(nil)
	_ Agent[types.StrategyDirective]   = (*Mentor)(nil)
	_ Agent[string]                    = (*Interviewer)(nil)
	_ Agent[types.JudgeVerdict]        = (*Judge)(nil)
	_ Agent[types.ConversationSummary] = (*Summarizer)(nil)
	_ Agent[types.FinalDecisionReport] = (*DecisionMaker)(nil)
)
