// internal/providers/errors.go
package providers

import (
	"errors"
	"fmt"
)

// Failure taxonomy for model calls. All of these are captured at the
// cell level by the orchestrator; none of them should be treated as
// fatal by callers.
var (
	// ErrProviderNotConfigured means the requested provider has no
	// credentials and was excluded from the priority list at startup.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrEmptyResponse means the call succeeded at the transport level
	// but returned no usable text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrAllProvidersExhausted means every provider in priority order
	// failed for one call. This is a normal, expected outcome.
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
)

// TransportError wraps a timeout or connection failure on a single
// model call.
type TransportError struct {
	Provider string
	Model    string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s/%s transport error: %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps unparseable content from a structured-output call.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
