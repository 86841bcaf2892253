package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all series routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/series", func(r chi.Router) {
		r.Get("/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			symbol := chi.URLParam(r, "symbol")
			h.HandleGetSeries(w, r, symbol)
		})
	})
}
