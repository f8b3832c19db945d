// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PromptCategory classifies the search intent a prompt is probing
type PromptCategory string

const (
	CategoryRecommendation PromptCategory = "recommendation" // "Best X brands"
	CategoryComparison     PromptCategory = "comparison"     // "X vs Y"
	CategoryReputation     PromptCategory = "reputation"     // "Is X good?"
	CategoryPurchase       PromptCategory = "purchase"       // "Where to buy X"
)

// Prompt is one question to put in front of the AI models
type Prompt struct {
	Text     string         `json:"text"`
	Category PromptCategory `json:"category"`
}

// ModelSpec is a static catalog entry for a testable AI model.
// Loaded once at process start, immutable afterwards.
type ModelSpec struct {
	ID       string `json:"id" yaml:"id"`             // e.g. "gpt-4o-mini"
	Name     string `json:"name" yaml:"name"`         // e.g. "ChatGPT"
	Provider string `json:"provider" yaml:"provider"` // e.g. "openai"
	Icon     string `json:"icon" yaml:"icon"`
}

// Sentiment of the brand mention within a response
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Cell is one prompt×model test outcome. Created when the orchestrator
// dispatches the call, fully populated once the analyzer has run, and
// immutable afterwards. A cell belongs to exactly one test run.
type Cell struct {
	Prompt           string         `json:"prompt"`
	PromptCategory   PromptCategory `json:"prompt_category"`
	ModelID          string         `json:"model_id"`
	ModelName        string         `json:"model_name"`
	Provider         string         `json:"provider"`
	Mentioned        bool           `json:"mentioned"`
	Position         *int           `json:"position,omitempty"`
	Sentiment        Sentiment      `json:"sentiment"`
	CompetitorsFound []string       `json:"competitors_found"`
	Response         string         `json:"response"`
	LatencyMS        int            `json:"latency_ms"`
	Error            string         `json:"error,omitempty"`
}

// OK reports whether the cell has usable response text to analyze
func (c *Cell) OK() bool {
	return c.Error == "" && c.Response != ""
}

// TestRun is one user-initiated visibility test: the inputs plus every
// cell produced for them. Discarded once the response is returned.
type TestRun struct {
	ID          uuid.UUID `json:"id"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Location    string    `json:"location,omitempty"`
	Competitors []string  `json:"competitors,omitempty"`
	Cells       []Cell    `json:"cells"`
	StartedAt   time.Time `json:"started_at"`
}

// Verdict is the qualitative label derived from the composite score
type Verdict string

const (
	VerdictInvisible Verdict = "invisible"
	VerdictGhost     Verdict = "ghost"
	VerdictContender Verdict = "contender"
	VerdictVisible   Verdict = "visible"
	VerdictAuthority Verdict = "authority"
)

// CompetitorInfo ranks a competitor found across the cell set
type CompetitorInfo struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Rate     int    `json:"rate"` // percentage of cells mentioning them (0-100)
}

// ModelBreakdown summarizes mention performance for one model
type ModelBreakdown struct {
	ModelID   string `json:"model_id"`
	ModelName string `json:"model_name"`
	Provider  string `json:"provider"`
	Mentions  int    `json:"mentions"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"` // percentage (0-100)
}

// PromptBreakdown summarizes mention performance for one prompt
type PromptBreakdown struct {
	Prompt       string         `json:"prompt"`
	Category     PromptCategory `json:"category"`
	MentionRate  float64        `json:"mention_rate"`
	BestPosition *int           `json:"best_position,omitempty"`
	Mentions     int            `json:"mentions"`
	Total        int            `json:"total"`
}

// WorstPrompt describes the prompt group with the lowest mention rate
type WorstPrompt struct {
	Prompt           string         `json:"prompt"`
	Category         PromptCategory `json:"category"`
	MentionRate      float64        `json:"mention_rate"`
	ModelsMentioning int            `json:"models_mentioning"`
	TotalModels      int            `json:"total_models"`
}

// ExampleResponse is one raw AI answer surfaced to the user for context
type ExampleResponse struct {
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	ModelName string `json:"model"`
	Mentioned bool   `json:"mentioned"`
}

// YouVsTop compares the brand's mention rate against the top competitor
type YouVsTop struct {
	Competitor string `json:"competitor"`
	TheirRate  int    `json:"their_rate"`
	YourRate   int    `json:"your_rate"`
	Gap        int    `json:"gap"`
}

// Aggregate is the reduction of a test run's cells. It is a pure function
// of the cells: if any cell changes the aggregate is rebuilt from scratch,
// never patched in place.
type Aggregate struct {
	Score           int               `json:"score"`
	Verdict         Verdict           `json:"verdict"`
	VerdictEmoji    string            `json:"verdict_emoji"`
	Grade           string            `json:"grade"`
	TotalCells      int               `json:"total_cells"`
	TotalMentions   int               `json:"total_mentions"`
	MentionRate     float64           `json:"mention_rate"`
	Competitors     []CompetitorInfo  `json:"competitors"`
	ModelBreakdown  []ModelBreakdown  `json:"model_breakdown"`
	PromptBreakdown []PromptBreakdown `json:"prompt_breakdown"`
	WorstPrompt     *WorstPrompt      `json:"worst_prompt,omitempty"`
	KillerQuote     string            `json:"killer_quote,omitempty"`
}

// ScoreRequest is the engine-level request shape
type ScoreRequest struct {
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Location    string   `json:"location,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	Prompts     []string `json:"prompts,omitempty"`
	Models      []string `json:"models,omitempty"`
}

// ScoreResponse is the engine's only externally visible artifact
type ScoreResponse struct {
	Score        int     `json:"score"`
	Verdict      Verdict `json:"verdict"`
	VerdictEmoji string  `json:"verdict_emoji"`
	Grade        string  `json:"grade"`

	Brand    string `json:"brand"`
	Category string `json:"category"`
	Location string `json:"location,omitempty"`

	TotalTests    int     `json:"total_tests"`
	TotalMentions int     `json:"total_mentions"`
	MentionRate   float64 `json:"mention_rate"`

	Competitors     []CompetitorInfo  `json:"competitors"`
	ModelBreakdown  []ModelBreakdown  `json:"model_breakdown"`
	PromptBreakdown []PromptBreakdown `json:"prompt_breakdown"`

	WorstPrompt     *WorstPrompt     `json:"worst_prompt,omitempty"`
	KillerQuote     string           `json:"killer_quote,omitempty"`
	ExampleResponse *ExampleResponse `json:"example_response,omitempty"`
	YouVsTop        *YouVsTop        `json:"you_vs_top,omitempty"`
	ShareText       string           `json:"share_text,omitempty"`

	TestedAt       time.Time `json:"tested_at"`
	TestDurationMS int       `json:"test_duration_ms"`
}
