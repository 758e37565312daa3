package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

var (
	// ErrEmptyContent means the backend answered but with no text
	ErrEmptyContent = errors.New("empty content in response")

	// ErrIncompleteResponse means the response lacked the expected fields
	ErrIncompleteResponse = errors.New("incomplete response structure")

	// ErrMissingCredential means no credential was supplied for the provider
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential means the credential failed the format check
	ErrInvalidCredential = errors.New("credential does not match the expected format")

	// ErrNoModels means the provider has no candidate models configured
	ErrNoModels = errors.New("no candidate models configured")
)

// ModelAttempt records one failed model call
type ModelAttempt struct {
	Model string
	Err   error
}

// ProviderUnavailableError means every candidate model of a provider failed
type ProviderUnavailableError struct {
	Provider model.ProviderID
	Attempts []ModelAttempt
	Err      error // Set when the provider failed before trying any model
}

func (e *ProviderUnavailableError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
	}

	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Model, a.Err))
	}
	return fmt.Sprintf("%s unavailable, all models failed (%s)", e.Provider, strings.Join(parts, "; "))
}

// Unwrap exposes the per-model errors to errors.Is and errors.As
func (e *ProviderUnavailableError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Models lists the attempted models in order
func (e *ProviderUnavailableError) Models() []string {
	models := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		models = append(models, a.Model)
	}
	return models
}

// ParseError means no JSON object could be recovered from a model reply
type ParseError struct {
	Model   string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v (near %q)", e.Model, e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
