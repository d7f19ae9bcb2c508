// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /health.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Serve)
}
