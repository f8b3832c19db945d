// internal/providers/anthropic.go
package providers

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicProvider struct {
	client   *anthropic.Client
	primary  string
	fallback string
}

// NewAnthropicProvider creates the Anthropic provider with its primary
// and fallback model variants.
func NewAnthropicProvider(apiKey, primary, fallback string) Provider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &anthropicProvider{
		client:   &client,
		primary:  primary,
		fallback: fallback,
	}
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Models() (string, string) {
	return p.primary, p.fallback
}

func (p *anthropicProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.primary
	}

	text, err := p.call(ctx, model, req)
	if err == nil && text != "" {
		return text, nil
	}

	text, fbErr := p.call(ctx, p.fallback, req)
	if fbErr == nil && text != "" {
		return text, nil
	}
	if err == nil {
		err = ErrEmptyResponse
	}
	return "", err
}

func (p *anthropicProvider) call(ctx context.Context, model string, req GenerateRequest) (string, error) {
	messages := []anthropic.MessageParam{{
		Content: []anthropic.ContentBlockParamUnion{{
			OfText: &anthropic.TextBlockParam{Text: req.Prompt},
		}},
		Role: anthropic.MessageParamRoleUser,
	}}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	response, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", &TransportError{Provider: p.Name(), Model: model, Err: err}
	}

	return extractResponseText(*response), nil
}

func extractResponseText(response anthropic.Message) string {
	var textParts []string

	for _, block := range response.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			textParts = append(textParts, variant.Text)
		}
	}

	return strings.Join(textParts, "")
}
