// Package schemas provides JSON Schema validation for agent outputs and persisted session logs.
// Schemas are embedded at compile time and compiled once per process.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names
const (
	FactCheck           = "fact_check"
	PsychProfile        = "psych_profile"
	StrategyDirective   = "strategy_directive"
	JudgeVerdict        = "judge_verdict"
	ConversationSummary = "conversation_summary"
	FinalDecision       = "final_decision"
	SessionLog          = "session_log"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("validation against %s failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Get returns the raw text of an embedded schema
func Get(name string) (string, error) {
	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "unknown schema", Cause: err}
	}
	return string(data), nil
}

// MustGet returns the raw text of an embedded schema, panicking if it is missing.
func MustGet(name string) string {
	text, err := Get(name)
	if err != nil {
		panic(err)
	}
	return text
}

// ValidateRecord validates JSON content against an embedded schema
func ValidateRecord(name, jsonContent string) error {
	schema, err := compile(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		// The document itself could not be parsed as JSON
		return &ValidationError{
			Schema: name,
			Errors: []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	return toValidationError(name, result)
}

func compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}

	text, err := Get(name)
	if err != nil {
		return nil, err
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = schema
	return schema, nil
}

// ValidateFile validates a JSON file against an embedded schema
func ValidateFile(name, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	return ValidateRecord(name, string(data))
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return toValidationError("", result)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
