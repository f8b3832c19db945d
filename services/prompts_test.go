package services_test

import (
	"strings"
	"testing"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/services"
)

func TestBuildPromptsFastTier(t *testing.T) {
	svc := services.NewPromptService()

	prompts := svc.BuildPrompts("Acme", "running shoes", "")
	if len(prompts) != 4 {
		t.Fatalf("got %d prompts, want 4", len(prompts))
	}

	categories := map[models.PromptCategory]bool{}
	for _, p := range prompts {
		if p.Text == "" {
			t.Error("prompt has empty text")
		}
		if !strings.Contains(p.Text, "running shoes") && !strings.Contains(p.Text, "Acme") {
			t.Errorf("prompt %q mentions neither category nor brand", p.Text)
		}
		categories[p.Category] = true
	}
	if !categories[models.CategoryRecommendation] {
		t.Error("fast tier should include recommendation prompts")
	}
	if !categories[models.CategoryReputation] {
		t.Error("fast tier should include a reputation prompt")
	}
	if !categories[models.CategoryPurchase] {
		t.Error("fast tier should include a purchase prompt")
	}
}

func TestBuildPromptsWithLocationStaysCapped(t *testing.T) {
	svc := services.NewPromptService()

	prompts := svc.BuildPrompts("Acme", "coffee shops", "Scranton")
	if len(prompts) != 4 {
		t.Fatalf("got %d prompts, want 4 (fast tier cap)", len(prompts))
	}
}

func TestBuildRichPrompts(t *testing.T) {
	svc := services.NewPromptService()

	tests := []struct {
		limit int
		want  int
	}{
		{3, 3},
		{10, 10},
		{0, 10},  // default cap
		{50, 10}, // clamped to cap
	}

	for _, tt := range tests {
		prompts := svc.BuildRichPrompts("crm software", tt.limit)
		if len(prompts) != tt.want {
			t.Errorf("limit %d: got %d prompts, want %d", tt.limit, len(prompts), tt.want)
		}
	}

	// Recommendation intent comes first
	prompts := svc.BuildRichPrompts("crm software", 10)
	if prompts[0].Category != models.CategoryRecommendation {
		t.Errorf("first rich prompt category = %q, want recommendation", prompts[0].Category)
	}
	for _, p := range prompts {
		if !strings.Contains(p.Text, "crm software") {
			t.Errorf("prompt %q does not mention the category", p.Text)
		}
	}
}
