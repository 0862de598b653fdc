package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInstructions(t *testing.T) {
	schema := `{"type": "object", "required": ["summary"]}`

	text := FormatInstructions("\n" + schema + "\n")

	assert.Contains(t, text, schema)
	assert.Contains(t, text, "Return ONLY a valid JSON object")
	assert.Contains(t, text, "Enumerated properties")
}
