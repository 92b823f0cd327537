package llm

import "context"

// Disabled stands in for a model client when no API key is configured.
// Every call fails with ErrMissingAPIKey so AI endpoints answer LLM_UNAVAILABLE
// while the rest of the API keeps serving.
type Disabled struct{}

// Generate always returns ErrMissingAPIKey
func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrMissingAPIKey
}

// Close is a no-op
func (Disabled) Close() error { return nil }
