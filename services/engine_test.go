package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dwightlabs/visibility-engine/internal/catalog"
	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/internal/providers"
	"github.com/dwightlabs/visibility-engine/internal/providers/testutil"
	"github.com/dwightlabs/visibility-engine/services"
)

func newTestEngine(gatewayProviders ...providers.Provider) *services.VisibilityEngine {
	gateway := providers.NewGatewayWithProviders(gatewayProviders)
	cat := catalog.New([]models.ModelSpec{
		{ID: "m-openai", Name: "ChatGPT", Provider: "openai"},
		{ID: "m-anthropic", Name: "Claude", Provider: "anthropic"},
	})
	orch := services.NewMatrixOrchestrator(gateway, services.NewRuleAnalyzer(), services.OrchestratorOptions{
		MaxConcurrent: 4,
		CellTimeout:   time.Second,
	})
	agg := services.NewScoreAggregator(services.DefaultScoreWeights())
	return services.NewVisibilityEngine(cat, services.NewPromptService(), orch, agg)
}

func TestRunTestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ScoreRequest
	}{
		{"missing brand", models.ScoreRequest{Category: "widgets"}},
		{"missing category", models.ScoreRequest{Brand: "Acme"}},
		{"whitespace brand", models.ScoreRequest{Brand: "   ", Category: "widgets"}},
	}

	engine := newTestEngine(testutil.NewMockProvider("openai", "Acme"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RunTest(context.Background(), &tt.req)
			if !errors.Is(err, services.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestRunTestUnknownModelsOnly(t *testing.T) {
	engine := newTestEngine(testutil.NewMockProvider("openai", "Acme"))

	_, err := engine.RunTest(context.Background(), &models.ScoreRequest{
		Brand:    "Acme",
		Category: "widgets",
		Models:   []string{"no-such-model"},
	})
	if !errors.Is(err, services.ErrTestNotCompleted) {
		t.Errorf("err = %v, want ErrTestNotCompleted", err)
	}
}

func TestRunTestFullFlow(t *testing.T) {
	engine := newTestEngine(
		testutil.NewMockProvider("openai", "1. Acme\n2. Globex\nAcme is an excellent, trusted brand."),
		testutil.NewMockProvider("anthropic", "I recommend Globex and Initech for widgets."),
	)

	resp, err := engine.RunTest(context.Background(), &models.ScoreRequest{
		Brand:    "Acme",
		Category: "widgets",
	})
	if err != nil {
		t.Fatalf("RunTest returned error: %v", err)
	}

	// 4 generated prompts x 2 catalog models
	if resp.TotalTests != 8 {
		t.Errorf("TotalTests = %d, want 8", resp.TotalTests)
	}
	if resp.TotalMentions != 4 {
		t.Errorf("TotalMentions = %d, want 4", resp.TotalMentions)
	}
	if resp.MentionRate != 0.5 {
		t.Errorf("MentionRate = %v, want 0.5", resp.MentionRate)
	}
	if resp.Score < 0 || resp.Score > 100 {
		t.Errorf("Score = %d, outside [0,100]", resp.Score)
	}
	if resp.Brand != "Acme" || resp.Category != "widgets" {
		t.Errorf("echoed brand/category = %q/%q", resp.Brand, resp.Category)
	}
	if len(resp.Competitors) == 0 {
		t.Error("competitors should be populated")
	}
	if len(resp.ModelBreakdown) != 2 {
		t.Errorf("ModelBreakdown has %d entries, want 2", len(resp.ModelBreakdown))
	}
	if len(resp.PromptBreakdown) != 4 {
		t.Errorf("PromptBreakdown has %d entries, want 4", len(resp.PromptBreakdown))
	}
	if resp.ExampleResponse == nil {
		t.Error("ExampleResponse should be populated")
	} else if resp.ExampleResponse.Mentioned {
		t.Error("ExampleResponse should prefer a miss")
	}
	if resp.YouVsTop == nil {
		t.Error("YouVsTop should be populated when competitors exist")
	}
	if resp.ShareText == "" {
		t.Error("ShareText should be populated")
	}
	if resp.KillerQuote == "" {
		t.Error("KillerQuote should surface the competitor-only answer")
	}
}

func TestRunTestUserSuppliedPromptsAndModels(t *testing.T) {
	mock := testutil.NewMockProvider("openai", "Acme all the way")
	engine := newTestEngine(mock)

	resp, err := engine.RunTest(context.Background(), &models.ScoreRequest{
		Brand:    "Acme",
		Category: "widgets",
		Prompts:  []string{"Which widget should I buy?", "Name the top widget maker"},
		Models:   []string{"m-openai"},
	})
	if err != nil {
		t.Fatalf("RunTest returned error: %v", err)
	}

	if resp.TotalTests != 2 {
		t.Errorf("TotalTests = %d, want 2 (2 prompts x 1 model)", resp.TotalTests)
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("provider saw %d calls, want 2", len(calls))
	}
	for _, call := range calls {
		if !strings.Contains("Which widget should I buy?Name the top widget maker", call.Prompt) {
			t.Errorf("unexpected prompt dispatched: %q", call.Prompt)
		}
	}
}

func TestRunTestLocationPrompt(t *testing.T) {
	mock := testutil.NewMockProvider("openai", "Acme")
	engine := newTestEngine(mock)

	resp, err := engine.RunTest(context.Background(), &models.ScoreRequest{
		Brand:    "Acme",
		Category: "coffee shops",
		Location: "Scranton",
		Models:   []string{"m-openai"},
	})
	if err != nil {
		t.Fatalf("RunTest returned error: %v", err)
	}

	// The fast tier caps at 4 prompts even with a location
	if resp.TotalTests != 4 {
		t.Errorf("TotalTests = %d, want 4", resp.TotalTests)
	}
	if resp.Location != "Scranton" {
		t.Errorf("Location = %q, want Scranton", resp.Location)
	}
}
