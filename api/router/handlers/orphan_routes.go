package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterOrphanRoutes wires the orphaned comment archive: comments whose
// anchor disappeared while they were hidden end up here instead of being
// lost.
func RegisterOrphanRoutes(r chi.Router) {
	r.Get("/orphans", GetAllOrphansHandler)
	r.Delete("/orphans", PurgeOrphansHandler)

	r.Route("/orphans/{orphan_id}", func(subRouter chi.Router) {
		subRouter.Get("/", GetOrphanByIDHandler)
		subRouter.Post("/restore", RestoreOrphanHandler)
	})
}
