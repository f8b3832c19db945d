// internal/providers/openai.go
package providers

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIProvider struct {
	client   *openai.Client
	primary  string
	fallback string
}

// NewOpenAIProvider creates the OpenAI provider with its primary and
// fallback model variants.
func NewOpenAIProvider(apiKey, primary, fallback string) Provider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &openAIProvider{
		client:   &client,
		primary:  primary,
		fallback: fallback,
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Models() (string, string) {
	return p.primary, p.fallback
}

func (p *openAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.primary
	}

	text, err := p.call(ctx, model, req)
	if err == nil && text != "" {
		return text, nil
	}

	// One same-provider fallback attempt on transport error or empty text
	text, fbErr := p.call(ctx, p.fallback, req)
	if fbErr == nil && text != "" {
		return text, nil
	}
	if err == nil {
		err = ErrEmptyResponse
	}
	return "", err
}

func (p *openAIProvider) call(ctx context.Context, model string, req GenerateRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	if req.JSONSchema != nil {
		schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:        req.SchemaName,
			Description: openai.String("Structured response"),
			Schema:      req.JSONSchema,
			Strict:      openai.Bool(true),
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		}
	} else if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	response, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &TransportError{Provider: p.Name(), Model: model, Err: err}
	}

	if len(response.Choices) == 0 {
		return "", nil
	}

	return response.Choices[0].Message.Content, nil
}
