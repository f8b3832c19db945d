// services/orchestrator.go
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/internal/providers"
)

// System instructions that push the models toward naming brands
const matrixSystemPrompt = `You are a helpful shopping and product advisor. When someone asks for recommendations:
1. Always mention specific brand names
2. Explain why you recommend each brand
3. List brands in order of your recommendation
4. Be specific and helpful

Provide genuine, useful recommendations based on quality, value, and reputation.`

const (
	cellMaxTokens   = 600
	cellTemperature = 0.3
)

// MatrixOrchestrator fans the prompt x model cross product out through
// the gateway and joins the results. It is the only component that
// introduces concurrency.
type MatrixOrchestrator struct {
	gateway  *providers.Gateway
	analyzer Analyzer

	maxConcurrent int
	cellTimeout   time.Duration
	pacingDelay   time.Duration
}

// OrchestratorOptions tunes the fan-out
type OrchestratorOptions struct {
	MaxConcurrent int           // concurrent cell cap; 0 means unbounded
	CellTimeout   time.Duration // per-cell call deadline
	PacingDelay   time.Duration // optional delay between dispatches for rate limits
}

// NewMatrixOrchestrator creates the orchestrator
func NewMatrixOrchestrator(gateway *providers.Gateway, analyzer Analyzer, opts OrchestratorOptions) *MatrixOrchestrator {
	if opts.CellTimeout <= 0 {
		opts.CellTimeout = 15 * time.Second
	}
	return &MatrixOrchestrator{
		gateway:       gateway,
		analyzer:      analyzer,
		maxConcurrent: opts.MaxConcurrent,
		cellTimeout:   opts.CellTimeout,
		pacingDelay:   opts.PacingDelay,
	}
}

// RunMatrix dispatches one independent call per (prompt, model) cell and
// waits for every cell to finish before returning. It always returns
// len(prompts) x len(models) cells; a failing or slow cell becomes an
// error cell and never aborts its siblings. No error escapes as a panic
// or a batch failure.
func (o *MatrixOrchestrator) RunMatrix(ctx context.Context, req *MatrixRequest) ([]models.Cell, error) {
	total := len(req.Prompts) * len(req.Models)
	cells := make([]models.Cell, total)

	fmt.Printf("[Orchestrator] Running %d queries (%d prompts x %d models)\n",
		total, len(req.Prompts), len(req.Models))

	group := &errgroup.Group{}
	if o.maxConcurrent > 0 {
		group.SetLimit(o.maxConcurrent)
	}

	idx := 0
	for _, prompt := range req.Prompts {
		for _, spec := range req.Models {
			prompt, spec, slot := prompt, spec, idx
			idx++

			group.Go(func() error {
				cells[slot] = o.queryCell(ctx, prompt, spec)
				return nil
			})

			if o.pacingDelay > 0 {
				time.Sleep(o.pacingDelay)
			}
		}
	}

	// Fan-in barrier: workers never return errors, only cells
	group.Wait()

	// Analysis runs after the join so cells are complete before the
	// aggregator sees any of them
	for i := range cells {
		o.analyzeCell(ctx, &cells[i], req.Brand, req.Competitors)
	}

	return cells, nil
}

// queryCell runs one gateway call and converts every failure mode,
// panics included, into an error cell.
func (o *MatrixOrchestrator) queryCell(ctx context.Context, prompt models.Prompt, spec models.ModelSpec) (cell models.Cell) {
	cell = models.Cell{
		Prompt:           prompt.Text,
		PromptCategory:   prompt.Category,
		ModelID:          spec.ID,
		ModelName:        spec.Name,
		Provider:         spec.Provider,
		Sentiment:        models.SentimentNeutral,
		CompetitorsFound: []string{},
	}

	defer func() {
		if r := recover(); r != nil {
			cell.Error = fmt.Sprintf("panic: %v", r)
			cell.Response = ""
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, o.cellTimeout)
	defer cancel()

	start := time.Now()
	text, err := o.gateway.Generate(callCtx, providers.Specific(spec.Provider, spec.ID), providers.GenerateRequest{
		Prompt:      prompt.Text,
		System:      matrixSystemPrompt,
		MaxTokens:   cellMaxTokens,
		Temperature: cellTemperature,
	})
	cell.LatencyMS = int(time.Since(start).Milliseconds())

	if err != nil {
		fmt.Printf("[Orchestrator] %s query failed: %v\n", spec.Name, err)
		cell.Error = err.Error()
		return cell
	}

	cell.Response = text
	return cell
}

// analyzeCell populates the cell's signal fields from its response text.
// Errored or empty cells stay not-mentioned; analyzer failures downgrade
// the cell to an error rather than propagating.
func (o *MatrixOrchestrator) analyzeCell(ctx context.Context, cell *models.Cell, brand string, competitors []string) {
	if !cell.OK() {
		return
	}

	analysis, err := o.analyzer.Analyze(ctx, cell.Response, brand, competitors)
	if err != nil {
		cell.Error = fmt.Sprintf("analysis failed: %v", err)
		return
	}

	cell.Mentioned = analysis.Mentioned
	cell.Position = analysis.Position
	cell.Sentiment = analysis.Sentiment
	cell.CompetitorsFound = analysis.Competitors
}
