package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Backend is a single LLM endpoint returning raw completion text.
type Backend interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}

// Schema validates the decoded JSON produced by a backend.
type Schema interface {
	Validate(raw json.RawMessage) error
}

var (
	ErrNoProvider  = errors.New("No LLM provider configured. Set OPENROUTER_API_KEY or GEMINI_API_KEY.")
	ErrInvalidJSON = errors.New("Invalid JSON response from LLM")

	ErrRateLimited          = errors.New("Rate limit exceeded. Please try again later.")
	ErrSecondaryUnavailable = errors.New("Gemini API service is temporarily unavailable. Please try again later.")
	ErrSecondaryBadRequest  = errors.New("Invalid request to Gemini API. Check model name and parameters.")

	// ErrBackendUnavailable is returned while a backend's circuit breaker is open.
	ErrBackendUnavailable = errors.New("LLM backend temporarily unavailable. Please try again later.")
)

// BackendError is a non-2xx response without a more specific mapping.
type BackendError struct {
	Backend string
	Status  int
	Body    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s API error: %d", displayName(e.Backend), e.Status)
}

// SchemaError reports a backend response that parsed but failed validation.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "Schema validation failed: " + strings.Join(e.Issues, "; ")
}

func displayName(backend string) string {
	switch backend {
	case "openrouter":
		return "OpenRouter"
	case "gemini":
		return "Gemini"
	default:
		return backend
	}
}
