package wizard

import (
	"github.com/go-chi/chi/v5"

	"github.com/futig/cbam-wizard/internal/api/middleware"
)

// RegisterRoutes registers wizard routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculations/{id}", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", h.View)
			r.Patch("/", h.Edit)
			r.Post("/open", h.Open)
			r.Post("/next", h.Next)
			r.Post("/back", h.Back)
			r.Post("/questions/refetch", h.Refetch)
			r.Put("/answers/{question_id}", h.SetAnswer)

			r.Post("/fuels", h.AddFuelRow)
			r.Put("/fuels/{row_id}", h.UpdateFuelRow)
			r.Delete("/fuels/{row_id}", h.DeleteFuelRow)

			r.Post("/precursors", h.AddPrecursorRow)
			r.Put("/precursors/{row_id}", h.UpdatePrecursorRow)
			r.Delete("/precursors/{row_id}", h.DeletePrecursorRow)
		})

		r.Get("/result", h.GetResult)
	})
}
