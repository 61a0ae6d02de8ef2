package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterEngineRoutes wires the stateless text endpoints. These operate
// purely on the request body and never touch the workspace, the store or
// the archive.
func RegisterEngineRoutes(r chi.Router) {
	r.Post("/extract", ExtractCommentsHandler)
	r.Post("/inject", InjectCommentsHandler)
	r.Post("/strip", StripCommentsHandler)
	r.Post("/reconcile", ReconcileSetHandler)
	r.Post("/detect", DetectModeHandler)
}
