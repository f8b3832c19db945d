// internal/providers/gemini.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// HTTPDoer lets tests substitute the HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type geminiProvider struct {
	apiKey     string
	primary    string
	fallback   string
	baseURL    string
	httpClient HTTPDoer
}

// NewGeminiProvider creates the Google Gemini provider. There is no
// official Go SDK wired here; calls go straight to the Generative
// Language REST API.
func NewGeminiProvider(apiKey, primary, fallback string) Provider {
	return &geminiProvider{
		apiKey:   apiKey,
		primary:  primary,
		fallback: fallback,
		baseURL:  defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewGeminiProviderWithClient is the test seam for the REST transport.
func NewGeminiProviderWithClient(apiKey, primary, fallback, baseURL string, client HTTPDoer) Provider {
	return &geminiProvider{
		apiKey:     apiKey,
		primary:    primary,
		fallback:   fallback,
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (p *geminiProvider) Name() string {
	return "google"
}

func (p *geminiProvider) Models() (string, string) {
	return p.primary, p.fallback
}

// Gemini REST request/response structures
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *geminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
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

func (p *geminiProvider) call(ctx context.Context, model string, req GenerateRequest) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: req.Prompt}},
			Role:  "user",
		}},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.System}},
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Provider: p.Name(), Model: model, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &TransportError{
			Provider: p.Name(),
			Model:    model,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200)),
		}
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", &TransportError{Provider: p.Name(), Model: model, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(geminiResp.Candidates) == 0 {
		return "", nil
	}

	var textParts []string
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
	}

	return strings.Join(textParts, ""), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
