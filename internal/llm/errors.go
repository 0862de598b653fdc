package llm

import "fmt"

// APICallError represents a failed call to an LLM provider (network, auth, empty response).
type APICallError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call error: %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
