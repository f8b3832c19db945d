// internal/providers/provider.go
package providers

import (
	"context"
)

// GenerateRequest carries one model call through the gateway.
type GenerateRequest struct {
	Prompt string
	System string

	MaxTokens   int
	Temperature float64

	// Model overrides the provider's primary model variant. The
	// provider's configured fallback variant still applies. Empty
	// means use the primary.
	Model string

	// JSONMode asks the provider for a JSON object response where the
	// upstream API supports it; providers without native JSON modes
	// rely on the prompt alone.
	JSONMode bool

	// JSONSchema, when set, requests strict structured output on
	// providers that support it (OpenAI). SchemaName labels the schema.
	JSONSchema any
	SchemaName string
}

// Provider is one upstream AI service with a primary and a fallback
// model variant. Implementations are stateless across calls and safe
// for concurrent use.
type Provider interface {
	Name() string

	// Generate attempts the primary model variant, then exactly one
	// same-provider fallback variant on transport error or empty text.
	// It returns non-empty text or a typed failure.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Models returns the primary and fallback model variants.
	Models() (primary, fallback string)
}
