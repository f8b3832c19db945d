// main.go
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/dwightlabs/visibility-engine/internal/catalog"
	"github.com/dwightlabs/visibility-engine/internal/config"
	"github.com/dwightlabs/visibility-engine/internal/httpapi"
	"github.com/dwightlabs/visibility-engine/internal/providers"
	"github.com/dwightlabs/visibility-engine/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Provider priority: %v", cfg.ProviderPriority)

	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARNING: OpenAI API key not loaded!")
	} else {
		log.Printf("OpenAI API key loaded (length: %d)", len(cfg.OpenAIAPIKey))
	}
	if cfg.AnthropicAPIKey == "" {
		log.Printf("WARNING: Anthropic API key not loaded!")
	} else {
		log.Printf("Anthropic API key loaded (length: %d)", len(cfg.AnthropicAPIKey))
	}
	if cfg.GoogleAPIKey == "" {
		log.Printf("WARNING: Google API key not loaded!")
	} else {
		log.Printf("Google API key loaded (length: %d)", len(cfg.GoogleAPIKey))
	}

	cat, err := catalog.Load(cfg.ModelCatalogPath)
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}
	log.Printf("Model catalog loaded with %d models", len(cat.All()))

	gateway := providers.NewGateway(cfg)
	if !gateway.IsAvailable() {
		log.Printf("WARNING: No AI providers configured - visibility tests will fail")
	}

	var analyzer services.Analyzer = services.NewRuleAnalyzer()
	if cfg.JudgeEnabled {
		analyzer = services.NewJudgeAnalyzer(gateway)
		log.Printf("Delegated judge analysis enabled")
	}

	orchestrator := services.NewMatrixOrchestrator(gateway, analyzer, services.OrchestratorOptions{
		MaxConcurrent: cfg.MaxConcurrentCells,
		CellTimeout:   time.Duration(cfg.CellTimeoutSeconds) * time.Second,
		PacingDelay:   time.Duration(cfg.PacingDelayMS) * time.Millisecond,
	})
	aggregator := services.NewScoreAggregator(services.DefaultScoreWeights())
	promptService := services.NewPromptService()
	engine := services.NewVisibilityEngine(cat, promptService, orchestrator, aggregator)
	log.Printf("Visibility engine initialized")

	handler := httpapi.NewRouter(engine, promptService, gateway)

	log.Printf("Starting visibility engine service on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal(err)
	}
}
