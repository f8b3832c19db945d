// services/interfaces.go
package services

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/dwightlabs/visibility-engine/internal/models"
)

// Analyzer interface for turning raw model text into cell-level signal
type Analyzer interface {
	Analyze(ctx context.Context, text, brand string, competitors []string) (*Analysis, error)
}

// Analysis contains the per-response findings for one matrix cell
type Analysis struct {
	Mentioned   bool
	Position    *int // 1-based rank when mentioned; nil when unranked
	Sentiment   models.Sentiment
	Competitors []string
}

// Orchestrator interface for running the prompt x model matrix
type Orchestrator interface {
	RunMatrix(ctx context.Context, run *MatrixRequest) ([]models.Cell, error)
}

// MatrixRequest describes one full prompt x model fan-out
type MatrixRequest struct {
	Brand       string
	Competitors []string
	Prompts     []models.Prompt
	Models      []models.ModelSpec
}

// Aggregator interface for reducing cells into the final scorecard
type Aggregator interface {
	Aggregate(cells []models.Cell, brand string) *models.Aggregate
}

// PromptService interface for default prompt generation
type PromptService interface {
	BuildPrompts(brand, category, location string) []models.Prompt
	BuildRichPrompts(category string, limit int) []models.Prompt
}

// VisibilityService is the top-level engine facade
type VisibilityService interface {
	RunTest(ctx context.Context, req *models.ScoreRequest) (*models.ScoreResponse, error)
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	// Convert to the format expected by OpenAI
	result := map[string]interface{}{
		"type":       "object",
		"properties": schema.Properties,
		"required":   schema.Required,
	}

	if schema.AdditionalProperties != nil {
		result["additionalProperties"] = false
	}

	return result
}
