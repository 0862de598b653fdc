// Package llm - format.go builds the output-shape instructions appended to structured prompts.
package llm

import "strings"

// FormatInstructions tells the model to answer with a single JSON object that
// validates against the given JSON Schema document.
func FormatInstructions(schemaJSON string) string {
	var sb strings.Builder

	sb.WriteString("Return ONLY a valid JSON object that conforms to this JSON Schema:\n")
	sb.WriteString("```json\n")
	sb.WriteString(strings.TrimSpace(schemaJSON))
	sb.WriteString("\n```\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use exactly the property names from the schema; fill every required property.\n")
	sb.WriteString("- Enumerated properties must use one of the listed values verbatim.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation.\n")

	return sb.String()
}
