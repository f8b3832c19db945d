package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/dwightlabs/visibility-engine/internal/providers"
)

// MockProvider is a mock implementation of providers.Provider for testing
type MockProvider struct {
	ProviderName string
	Primary      string
	Fallback     string
	GenerateFunc func(ctx context.Context, req providers.GenerateRequest) (string, error)

	mu    sync.Mutex
	calls []providers.GenerateRequest
}

func (m *MockProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockProvider) Models() (string, string) {
	return m.Primary, m.Fallback
}

func (m *MockProvider) Generate(ctx context.Context, req providers.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "mock response", nil
}

// Calls returns a copy of every request the mock has seen.
func (m *MockProvider) Calls() []providers.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]providers.GenerateRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// NewMockProvider creates a mock provider that always returns text
func NewMockProvider(name, text string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		GenerateFunc: func(ctx context.Context, req providers.GenerateRequest) (string, error) {
			return text, nil
		},
	}
}

// NewFailingProvider creates a mock provider that always returns err
func NewFailingProvider(name string, err error) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		GenerateFunc: func(ctx context.Context, req providers.GenerateRequest) (string, error) {
			return "", err
		},
	}
}

// MockHTTPDoer is a mock HTTP client for testing
type MockHTTPDoer struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return nil, nil
}
