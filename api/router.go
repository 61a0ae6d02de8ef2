package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Serendipbrity/hide-comments-extension/api/router/handlers"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

// NewRouter creates and configures the HTTP router for the API.
// All registered paths are relative to the /api base path.
func NewRouter(mgr *session.Manager) http.Handler {
	handlers.SetManager(mgr)

	router := chi.NewRouter()

	handlers.RegisterHealthRoutes(router)
	handlers.RegisterEngineRoutes(router)
	handlers.RegisterFileRoutes(router)
	handlers.RegisterOrphanRoutes(router)
	handlers.RegisterEventRoutes(router)

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API SUB-ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return router
}
