// Package handlers provides HTTP handlers for benchmark operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/modules/benchmarks"
	"github.com/aristath/meridian/internal/modules/marketdata"
)

// Handler handles benchmark HTTP requests
type Handler struct {
	registry *benchmarks.Registry
	market   *marketdata.Service
	log      zerolog.Logger
}

// NewHandler creates a new benchmarks handler
func NewHandler(registry *benchmarks.Registry, market *marketdata.Service, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		market:   market,
		log:      log.With().Str("handler", "benchmarks").Logger(),
	}
}

// HandleList handles GET /api/benchmarks
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"benchmarks": list,
			"count":      len(list),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetSeries handles GET /api/benchmarks/{id}/series?start=&end= (or
// ?range=1Y). Returns the gap-filled benchmark series.
func (h *Handler) HandleGetSeries(w http.ResponseWriter, r *http.Request, id string) {
	benchmark, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "unknown benchmark "+strconv.Quote(id))
		return
	}

	start, end, err := parseWindow(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := h.market.FetchOne(r.Context(), benchmark.Symbol, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("benchmark", id).Msg("Failed to fetch benchmark series")
		if errors.Is(err, domain.ErrRateLimited) {
			h.writeError(w, http.StatusTooManyRequests, "provider rate limited, try again later")
			return
		}
		h.writeError(w, http.StatusBadGateway, "failed to fetch benchmark series")
		return
	}

	filled := marketdata.FillCalendarGaps(points, start, end)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"benchmark": benchmark,
			"series":    filled,
			"count":     len(filled),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func parseWindow(r *http.Request) (domain.Date, domain.Date, error) {
	if rangeStr := r.URL.Query().Get("range"); rangeStr != "" {
		return marketdata.ParseRange(rangeStr, time.Now())
	}

	start, err := domain.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	end, err := domain.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	return start, end, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
