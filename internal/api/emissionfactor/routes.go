package emissionfactor

import (
	"github.com/go-chi/chi/v5"

	"github.com/futig/cbam-wizard/internal/api/middleware"
)

// RegisterRoutes registers emission factor cascade routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/emission-factors", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Get("/resolve", h.Resolve)
		r.Get("/{level}", h.List)
	})
}
