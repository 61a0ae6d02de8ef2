package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterFileRoutes wires the workspace document operations. Every route
// here runs through the session manager so toggles, background syncs and
// HTTP callers serialize per document.
func RegisterFileRoutes(r chi.Router) {
	r.Post("/files/toggle", ToggleFileHandler)
	r.Post("/files/hide", HideFileHandler)
	r.Post("/files/show", ShowFileHandler)
	r.Post("/files/sync", SyncFileHandler)
	r.Post("/files/mark", MarkCommentHandler)
	r.Get("/files/status", GetFileStatusHandler)
}
