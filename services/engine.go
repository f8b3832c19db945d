// services/engine.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwightlabs/visibility-engine/internal/catalog"
	"github.com/dwightlabs/visibility-engine/internal/models"
)

var (
	// ErrInvalidRequest means the request failed validation before any dispatch
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTestNotCompleted means the visibility test could not be completed:
	// no testable cells existed (e.g. zero models configured)
	ErrTestNotCompleted = errors.New("visibility test could not be completed")
)

// VisibilityEngine is the top-level facade: prompts in, scorecard out.
// All collaborators are constructor-injected.
type VisibilityEngine struct {
	catalog      *catalog.Catalog
	prompts      PromptService
	orchestrator Orchestrator
	aggregator   Aggregator
}

// NewVisibilityEngine wires the engine from its collaborators
func NewVisibilityEngine(cat *catalog.Catalog, prompts PromptService, orch Orchestrator, agg Aggregator) *VisibilityEngine {
	return &VisibilityEngine{
		catalog:      cat,
		prompts:      prompts,
		orchestrator: orch,
		aggregator:   agg,
	}
}

// RunTest runs one complete visibility test. Partial cell failures are
// absorbed into the score; the only hard failures are request validation
// and an empty cell set.
func (e *VisibilityEngine) RunTest(ctx context.Context, req *models.ScoreRequest) (*models.ScoreResponse, error) {
	start := time.Now()

	brand := strings.TrimSpace(req.Brand)
	category := strings.TrimSpace(req.Category)
	if brand == "" {
		return nil, fmt.Errorf("%w: brand is required", ErrInvalidRequest)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidRequest)
	}

	specs := e.catalog.Lookup(req.Models)
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no testable models", ErrTestNotCompleted)
	}

	prompts := e.resolvePrompts(req, brand, category)
	if len(prompts) == 0 {
		return nil, fmt.Errorf("%w: no prompts to test", ErrTestNotCompleted)
	}

	run := &models.TestRun{
		ID:          uuid.New(),
		Brand:       brand,
		Category:    category,
		Location:    req.Location,
		Competitors: req.Competitors,
		StartedAt:   start,
	}
	fmt.Printf("[Engine] Test %s: %q in %q, %d prompts x %d models\n",
		run.ID, brand, category, len(prompts), len(specs))

	cells, err := e.orchestrator.RunMatrix(ctx, &MatrixRequest{
		Brand:       brand,
		Competitors: req.Competitors,
		Prompts:     prompts,
		Models:      specs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTestNotCompleted, err)
	}
	if len(cells) == 0 {
		return nil, ErrTestNotCompleted
	}
	run.Cells = cells

	agg := e.aggregator.Aggregate(cells, brand)

	resp := &models.ScoreResponse{
		Score:        agg.Score,
		Verdict:      agg.Verdict,
		VerdictEmoji: agg.VerdictEmoji,
		Grade:        agg.Grade,

		Brand:    brand,
		Category: category,
		Location: req.Location,

		TotalTests:    agg.TotalCells,
		TotalMentions: agg.TotalMentions,
		MentionRate:   agg.MentionRate,

		Competitors:     agg.Competitors,
		ModelBreakdown:  agg.ModelBreakdown,
		PromptBreakdown: agg.PromptBreakdown,

		WorstPrompt: agg.WorstPrompt,
		KillerQuote: agg.KillerQuote,

		TestedAt:       time.Now(),
		TestDurationMS: int(time.Since(start).Milliseconds()),
	}

	resp.ExampleResponse = exampleResponse(cells)
	resp.YouVsTop = youVsTop(agg)
	resp.ShareText = shareText(brand, category, agg)

	return resp, nil
}

// resolvePrompts prefers user-supplied prompt strings, treated as opaque
// recommendation-intent questions, and falls back to the generated set.
func (e *VisibilityEngine) resolvePrompts(req *models.ScoreRequest, brand, category string) []models.Prompt {
	if len(req.Prompts) > 0 {
		prompts := make([]models.Prompt, 0, len(req.Prompts))
		for _, text := range req.Prompts {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			prompts = append(prompts, models.Prompt{
				Text:     text,
				Category: models.CategoryRecommendation,
			})
		}
		if len(prompts) > 0 {
			return prompts
		}
	}
	return e.prompts.BuildPrompts(brand, category, req.Location)
}

// exampleResponse picks one raw answer to show the user, preferring a
// miss since that lands harder than a hit
func exampleResponse(cells []models.Cell) *models.ExampleResponse {
	pick := func(c *models.Cell) *models.ExampleResponse {
		response := c.Response
		if len(response) > 500 {
			response = response[:500] + "..."
		}
		return &models.ExampleResponse{
			Prompt:    c.Prompt,
			Response:  response,
			ModelName: c.ModelName,
			Mentioned: c.Mentioned,
		}
	}

	for i := range cells {
		if !cells[i].Mentioned && cells[i].OK() {
			return pick(&cells[i])
		}
	}
	for i := range cells {
		if cells[i].OK() {
			return pick(&cells[i])
		}
	}
	return nil
}

func youVsTop(agg *models.Aggregate) *models.YouVsTop {
	if len(agg.Competitors) == 0 {
		return nil
	}
	top := agg.Competitors[0]
	yourRate := int(math.Round(agg.MentionRate * 100))
	return &models.YouVsTop{
		Competitor: top.Name,
		TheirRate:  top.Rate,
		YourRate:   yourRate,
		Gap:        top.Rate - yourRate,
	}
}

// shareText builds the LinkedIn-ready summary for the score band
func shareText(brand, category string, agg *models.Aggregate) string {
	ratePct := int(math.Round(agg.MentionRate * 100))

	switch {
	case agg.Score < 30:
		topComp := "competitors"
		if len(agg.Competitors) > 0 {
			topComp = agg.Competitors[0].Name
		}
		return fmt.Sprintf(`I just checked my AI Visibility Score with Dwight — only %d%%! 😱

When people ask AI for %q, %s shows up but %s doesn't.

%d%% of AI models recommend my competitors over me.

Check your brand's AI visibility for free 👇
`, agg.Score, category, topComp, brand, ratePct)

	case agg.Score < 60:
		return fmt.Sprintf(`Just discovered my AI Visibility Score is %d%% 📊

When customers ask ChatGPT, Claude, and Gemini about %q, I'm only mentioned %d%% of the time.

Time to optimize for AI search. Check your score 👇
`, agg.Score, category, ratePct)

	default:
		return fmt.Sprintf(`Just checked my AI Visibility Score — %d%%! 🎉

%s is recommended by %d%% of AI models when people ask about %q.

Curious about your brand's AI visibility? Check free 👇
`, agg.Score, brand, ratePct, category)
	}
}
