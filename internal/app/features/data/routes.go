// internal/app/features/data/routes.go
package data

import "github.com/go-chi/chi/v5"

// MountRoutes registers the data API under /api/v1/data.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1/data", func(r chi.Router) {
		r.Get("/", h.ServeListForms)

		r.Route("/{formID}", func(r chi.Router) {
			r.Delete("/", h.ServeBulkDelete)
			r.Patch("/validation_statuses", h.ServeBulkValidationStatus)

			r.Route("/{dataID}", func(r chi.Router) {
				r.Get("/", h.ServeRetrieve)
				r.Delete("/", h.ServeDestroy)

				r.Get("/validation_status", h.ServeGetValidationStatus)
				r.Patch("/validation_status", h.ServeSetValidationStatus)
				r.Delete("/validation_status", h.ServeClearValidationStatus)

				r.Get("/labels", h.ServeListLabels)
				r.Post("/labels", h.ServeAddLabels)
				r.Delete("/labels/{label}", h.ServeRemoveLabel)
			})
		})
	})
}
