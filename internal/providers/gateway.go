// internal/providers/gateway.go
package providers

import (
	"context"
	"fmt"

	"github.com/dwightlabs/visibility-engine/internal/config"
)

// SelectionKind picks how the gateway chooses an upstream provider.
type SelectionKind int

const (
	// UseFirstAvailable walks the priority-ordered provider list until
	// one returns non-empty text.
	UseFirstAvailable SelectionKind = iota

	// UseSpecific targets one provider and model variant directly.
	UseSpecific
)

// Selection is the explicit model-selection strategy for one call.
type Selection struct {
	Kind     SelectionKind
	Provider string // required for UseSpecific
	Model    string // optional primary-variant override for UseSpecific
}

// FirstAvailable selects the highest-priority provider that answers.
func FirstAvailable() Selection {
	return Selection{Kind: UseFirstAvailable}
}

// Specific targets one provider/model pair.
func Specific(provider, model string) Selection {
	return Selection{Kind: UseSpecific, Provider: provider, Model: model}
}

// Default primary/fallback model variants per provider.
const (
	openAIPrimary  = "gpt-4o"
	openAIFallback = "gpt-4o-mini"

	anthropicPrimary  = "claude-sonnet-4-20250514"
	anthropicFallback = "claude-3-5-sonnet-20241022"

	geminiPrimary  = "gemini-2.0-flash"
	geminiFallback = "gemini-1.5-flash-latest"
)

// Gateway is the uniform interface over every configured upstream AI
// service. The provider list is built once from credentials at startup
// and is immutable for the process lifetime, so the gateway is safe to
// share across arbitrarily many in-flight calls.
type Gateway struct {
	order     []string
	providers map[string]Provider
}

// NewGateway builds the gateway from config. Providers without
// credentials are excluded up front; they never block a call.
func NewGateway(cfg *config.Config) *Gateway {
	available := map[string]Provider{}

	if cfg.AnthropicAPIKey != "" {
		available["anthropic"] = NewAnthropicProvider(cfg.AnthropicAPIKey, anthropicPrimary, anthropicFallback)
		fmt.Printf("[Gateway] ✅ Anthropic (Claude) initialized\n")
	}
	if cfg.OpenAIAPIKey != "" {
		available["openai"] = NewOpenAIProvider(cfg.OpenAIAPIKey, openAIPrimary, openAIFallback)
		fmt.Printf("[Gateway] ✅ OpenAI (GPT-4o) initialized\n")
	}
	if cfg.GoogleAPIKey != "" {
		available["google"] = NewGeminiProvider(cfg.GoogleAPIKey, geminiPrimary, geminiFallback)
		fmt.Printf("[Gateway] ✅ Google (Gemini) initialized\n")
	}

	if len(available) == 0 {
		fmt.Printf("[Gateway] ⚠️ No AI providers configured\n")
	}

	// Keep only configured providers, in priority order
	order := make([]string, 0, len(available))
	for _, name := range cfg.ProviderPriority {
		if _, ok := available[name]; ok {
			order = append(order, name)
		}
	}

	return &Gateway{order: order, providers: available}
}

// NewGatewayWithProviders builds a gateway over explicit providers in
// the given priority order. Exposed for tests.
func NewGatewayWithProviders(order []Provider) *Gateway {
	names := make([]string, 0, len(order))
	byName := make(map[string]Provider, len(order))
	for _, p := range order {
		names = append(names, p.Name())
		byName[p.Name()] = p
	}
	return &Gateway{order: names, providers: byName}
}

// AvailableProviders returns the configured provider names in priority
// order. Read-only diagnostics; never blocks.
func (g *Gateway) AvailableProviders() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// IsAvailable reports whether any provider is configured.
func (g *Gateway) IsAvailable() bool {
	return len(g.order) > 0
}

// Generate runs one model call under the given selection strategy. It
// returns the first provider's non-empty text, or a typed failure. An
// exhausted provider list is a normal outcome, not a fatal condition.
func (g *Gateway) Generate(ctx context.Context, sel Selection, req GenerateRequest) (string, error) {
	switch sel.Kind {
	case UseSpecific:
		provider, ok := g.providers[sel.Provider]
		if !ok {
			return "", fmt.Errorf("%s: %w", sel.Provider, ErrProviderNotConfigured)
		}
		req.Model = sel.Model
		text, err := provider.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil

	default:
		if len(g.order) == 0 {
			return "", ErrAllProvidersExhausted
		}

		var lastErr error
		for _, name := range g.order {
			provider := g.providers[name]
			text, err := provider.Generate(ctx, req)
			if err != nil {
				lastErr = err
				continue
			}
			if text == "" {
				lastErr = ErrEmptyResponse
				continue
			}
			return text, nil
		}

		return "", fmt.Errorf("%w: last failure: %v", ErrAllProvidersExhausted, lastErr)
	}
}
