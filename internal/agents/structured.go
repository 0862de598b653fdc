package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"go.uber.org/zap"
)

// Option customizes an agent at construction
type Option func(*options)

type options struct {
	tier   llm.ModelTier
	logger *zap.Logger
}

// WithTier overrides the role's default model tier
func WithTier(tier llm.ModelTier) Option {
	return func(o *options) { o.tier = tier }
}

// WithLogger sets the logger used for call tracing
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(tier llm.ModelTier, opts []Option) options {
	o := options{tier: tier}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// StructuredAgent is a role whose reply is a JSON record validated against an
// embedded schema. It is the composition of a role, a prompt template, a
// schema and the function that fills the template from an Input.
type StructuredAgent[T any] struct {
	role      Role
	schema    string
	client    llm.Client
	vars      func(ctx context.Context, in Input) (map[string]string, error)
	normalize func(*T)
	opts      options
}

func newStructured[T any](role Role, schema string, tier llm.ModelTier, client llm.Client,
	vars func(context.Context, Input) (map[string]string, error), opts []Option) *StructuredAgent[T] {
	return &StructuredAgent[T]{
		role:   role,
		schema: schema,
		client: client,
		vars:   vars,
		opts:   buildOptions(tier, opts),
	}
}

// Role implements Agent
func (a *StructuredAgent[T]) Role() Role {
	return a.role
}

// Run renders the prompt, makes one JSON call and decodes the validated reply.
func (a *StructuredAgent[T]) Run(ctx context.Context, in Input) (T, error) {
	var zero T

	vars, err := a.vars(ctx, in)
	if err != nil {
		return zero, err
	}

	schemaText, err := schemas.Get(a.schema)
	if err != nil {
		return zero, err
	}
	vars["FormatInstructions"] = llm.FormatInstructions(schemaText)

	prompt, err := renderPrompt(a.role, vars)
	if err != nil {
		return zero, err
	}

	a.opts.logger.Debug("agent call",
		zap.String("role", string(a.role)),
		zap.String("tier", string(a.opts.tier)),
		zap.String("model", a.client.GetModel(a.opts.tier)),
		zap.Int("prompt_chars", len(prompt)))

	raw, err := a.client.GenerateJSON(ctx, prompt, a.opts.tier)
	if err != nil {
		return zero, fmt.Errorf("%s call failed: %w", a.role, err)
	}

	result, err := decodeRecord[T](a.role, a.schema, raw)
	if err != nil {
		return zero, err
	}
	if a.normalize != nil {
		a.normalize(&result)
	}
	return result, nil
}

func renderPrompt(role Role, vars map[string]string) (string, error) {
	prompt, err := prompts.Render(prompts.InterviewFile, string(role), vars)
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", role, err)
	}
	return prompt, nil
}

// decodeRecord cleans, validates and decodes a model reply
func decodeRecord[T any](role Role, schema, raw string) (T, error) {
	var result T

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateRecord(schema, cleaned); err != nil {
		malformed := &MalformedOutputError{
			Role:    role,
			Message: "reply does not match schema " + schema,
			Raw:     raw,
			Cause:   err,
		}
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			malformed.Fields = validationErr.Errors
		}
		return result, malformed
	}

	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, &MalformedOutputError{
			Role:    role,
			Message: "failed to decode reply",
			Raw:     raw,
			Cause:   err,
		}
	}
	return result, nil
}
