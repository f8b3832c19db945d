// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string

	// ProviderPriority is the order in which the gateway consults
	// providers when no specific model is requested.
	ProviderPriority []string

	// ModelCatalogPath points at an optional YAML catalog file; when it
	// is empty or unreadable the built-in catalog is used.
	ModelCatalogPath string

	// CellTimeoutSeconds is the per-call timeout for a single
	// prompt×model query.
	CellTimeoutSeconds int

	// MaxConcurrentCells bounds the orchestrator fan-out.
	MaxConcurrentCells int

	// PacingDelayMS is an optional delay between dispatches, a tuning
	// knob for per-provider rate limits. Zero disables pacing.
	PacingDelayMS int

	// JudgeEnabled turns on the delegated model-graded analysis path.
	// The rule-based analyzer remains the unconditional fallback.
	JudgeEnabled bool
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:       os.Getenv("GOOGLE_API_KEY"),
		ProviderPriority:   splitList(getEnv("AI_PROVIDER_PRIORITY", "anthropic,openai,google")),
		ModelCatalogPath:   os.Getenv("MODEL_CATALOG_PATH"),
		CellTimeoutSeconds: getEnvInt("CELL_TIMEOUT_SECONDS", 15),
		MaxConcurrentCells: getEnvInt("MAX_CONCURRENT_CELLS", 12),
		PacingDelayMS:      getEnvInt("PACING_DELAY_MS", 0),
		JudgeEnabled:       getEnvBool("JUDGE_ENABLED", false),
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
