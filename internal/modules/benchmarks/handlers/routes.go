package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all benchmark routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/benchmarks", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}/series", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			h.HandleGetSeries(w, r, id)
		})
	})
}
