// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"os"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"gopkg.in/yaml.v3"
)

// Catalog is the static set of AI models the engine can test. It is
// built once at process start and read-only afterwards.
type Catalog struct {
	specs []models.ModelSpec
	byID  map[string]models.ModelSpec
}

// Fast, cheap models used by default so a full matrix finishes inside
// the speed-test latency target.
var defaultSpecs = []models.ModelSpec{
	{ID: "gpt-4o-mini", Name: "ChatGPT", Provider: "openai", Icon: "🤖"},
	{ID: "claude-3-haiku-20240307", Name: "Claude", Provider: "anthropic", Icon: "🧠"},
	{ID: "gemini-1.5-flash", Name: "Gemini", Provider: "google", Icon: "💎"},
}

type catalogFile struct {
	Models []models.ModelSpec `yaml:"models"`
}

// Load builds the catalog from the YAML file at path. An empty path
// yields the built-in defaults; a malformed file is an error so a bad
// deploy fails at startup rather than mid-test.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(defaultSpecs), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("model catalog %s defines no models", path)
	}

	for _, spec := range file.Models {
		if spec.ID == "" || spec.Provider == "" {
			return nil, fmt.Errorf("model catalog %s has an entry missing id or provider", path)
		}
	}

	return New(file.Models), nil
}

// New builds a catalog from explicit specs. Exposed for tests and for
// callers embedding the engine as a library.
func New(specs []models.ModelSpec) *Catalog {
	byID := make(map[string]models.ModelSpec, len(specs))
	copied := make([]models.ModelSpec, len(specs))
	copy(copied, specs)
	for _, spec := range copied {
		byID[spec.ID] = spec
	}
	return &Catalog{specs: copied, byID: byID}
}

// All returns every catalog entry in declaration order.
func (c *Catalog) All() []models.ModelSpec {
	out := make([]models.ModelSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup resolves model IDs to specs, skipping unknown IDs. An empty
// id list resolves to the full catalog.
func (c *Catalog) Lookup(ids []string) []models.ModelSpec {
	if len(ids) == 0 {
		return c.All()
	}

	out := make([]models.ModelSpec, 0, len(ids))
	for _, id := range ids {
		if spec, ok := c.byID[id]; ok {
			out = append(out, spec)
		}
	}
	return out
}
