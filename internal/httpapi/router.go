// internal/httpapi/router.go
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/internal/providers"
	"github.com/dwightlabs/visibility-engine/services"
)

// Router exposes the visibility engine over HTTP. All services are
// constructor-injected so handlers carry no process-wide state.
type Router struct {
	engine  services.VisibilityService
	prompts services.PromptService
	gateway *providers.Gateway
}

// NewRouter builds the HTTP handler tree
func NewRouter(engine services.VisibilityService, prompts services.PromptService, gateway *providers.Gateway) http.Handler {
	r := &Router{engine: engine, prompts: prompts, gateway: gateway}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/", r.handleRoot)
	mux.Get("/health", r.handleHealth)

	mux.Route("/api/visibility", func(rt chi.Router) {
		rt.Post("/score", r.wrap(r.handleScore))
		rt.Get("/providers", r.wrap(r.handleProviders))
		rt.Get("/prompts/{category}", r.wrap(r.handlePrompts))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, services.ErrInvalidRequest) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, services.ErrTestNotCompleted) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, map[string]any{
		"service":   "visibility-engine",
		"status":    "ok",
		"providers": r.gateway.AvailableProviders(),
		"time":      time.Now(),
	})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Write([]byte("ok"))
}

// POST /api/visibility/score
func (r *Router) handleScore(w http.ResponseWriter, req *http.Request) error {
	var body models.ScoreRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return nil
	}

	resp, err := r.engine.RunTest(req.Context(), &body)
	if err != nil {
		return err
	}

	return writeJSON(w, resp)
}

// GET /api/visibility/providers
func (r *Router) handleProviders(w http.ResponseWriter, req *http.Request) error {
	names := r.gateway.AvailableProviders()
	return writeJSON(w, map[string]any{
		"providers": names,
		"available": len(names) > 0,
	})
}

// GET /api/visibility/prompts/{category}
func (r *Router) handlePrompts(w http.ResponseWriter, req *http.Request) error {
	category := chi.URLParam(req, "category")
	prompts := r.prompts.BuildRichPrompts(category, 0)
	return writeJSON(w, map[string]any{
		"category": category,
		"prompts":  prompts,
	})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
