// services/prompts.go
package services

import (
	"fmt"
	"strings"

	"github.com/dwightlabs/visibility-engine/internal/models"
)

// maxFastPrompts caps the fast tier so a full test stays inside the
// latency target
const maxFastPrompts = 4

// maxRichPrompts caps the rich tier
const maxRichPrompts = 10

// DefaultPromptService builds the question set a visibility test puts in
// front of the models. The engine treats the resulting texts as opaque
// strings.
type DefaultPromptService struct{}

// NewPromptService creates the default prompt builder
func NewPromptService() *DefaultPromptService {
	return &DefaultPromptService{}
}

// BuildPrompts generates the fast-tier prompt set: diverse prompts
// covering different search intents, plus a location prompt when the
// business is local.
func (s *DefaultPromptService) BuildPrompts(brand, category, location string) []models.Prompt {
	prompts := []models.Prompt{
		{
			Text:     fmt.Sprintf("What are the best %s?", category),
			Category: models.CategoryRecommendation,
		},
		{
			Text:     fmt.Sprintf("Top %s brands in 2025", category),
			Category: models.CategoryRecommendation,
		},
		{
			Text:     fmt.Sprintf("Is %s good for %s? What are the alternatives?", brand, category),
			Category: models.CategoryReputation,
		},
		{
			Text:     fmt.Sprintf("Where should I buy %s? What brands do you recommend?", category),
			Category: models.CategoryPurchase,
		},
	}

	if location != "" {
		prompts = append(prompts, models.Prompt{
			Text:     fmt.Sprintf("Best %s in %s", category, location),
			Category: models.CategoryRecommendation,
		})
	}

	if len(prompts) > maxFastPrompts {
		prompts = prompts[:maxFastPrompts]
	}
	return prompts
}

// Template patterns per intent for the rich tier
var richTemplates = []struct {
	category  models.PromptCategory
	templates []string
}{
	{models.CategoryRecommendation, []string{
		"What %s should I use?",
		"What's the best %s available?",
		"Which %s do you recommend?",
		"What %s would you suggest for a small business?",
	}},
	{models.CategoryComparison, []string{
		"What are the top %s options?",
		"Compare the leading %s choices",
		"What %s options should I consider?",
	}},
	{models.CategoryReputation, []string{
		"What are the pros and cons of different %s?",
		"What should I know before choosing %s?",
	}},
	{models.CategoryPurchase, []string{
		"Where is the best place to buy %s?",
	}},
}

// BuildRichPrompts generates up to limit prompts across every intent
// category, recommendation and comparison first.
func (s *DefaultPromptService) BuildRichPrompts(category string, limit int) []models.Prompt {
	if limit <= 0 || limit > maxRichPrompts {
		limit = maxRichPrompts
	}

	categoryLower := strings.ToLower(category)

	var prompts []models.Prompt
	for _, group := range richTemplates {
		for _, template := range group.templates {
			if len(prompts) >= limit {
				return prompts
			}
			prompts = append(prompts, models.Prompt{
				Text:     fmt.Sprintf(template, categoryLower),
				Category: group.category,
			})
		}
	}
	return prompts
}
