// Package handlers provides HTTP handlers for raw series access.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/modules/marketdata"
	"github.com/aristath/meridian/pkg/formulas"
)

// Handler handles series HTTP requests
type Handler struct {
	market *marketdata.Service
	log    zerolog.Logger
}

// NewHandler creates a new series handler
func NewHandler(market *marketdata.Service, log zerolog.Logger) *Handler {
	return &Handler{
		market: market,
		log:    log.With().Str("handler", "marketdata").Logger(),
	}
}

// HandleGetSeries handles GET /api/series/{symbol}?start=&end=&sma=&ema=
// (or ?range=1Y). Returns the gap-filled daily series with optional
// moving-average overlays for chart consumers.
func (h *Handler) HandleGetSeries(w http.ResponseWriter, r *http.Request, symbol string) {
	start, end, err := parseWindow(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := h.market.FetchOne(r.Context(), symbol, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to fetch series")
		switch {
		case errors.Is(err, domain.ErrNoDataForSymbol), errors.Is(err, domain.ErrNoDataForDateRange):
			h.writeError(w, http.StatusNotFound, "no data for symbol "+symbol)
		case errors.Is(err, domain.ErrRateLimited):
			h.writeError(w, http.StatusTooManyRequests, "provider rate limited, try again later")
		default:
			h.writeError(w, http.StatusBadGateway, "failed to fetch series")
		}
		return
	}

	filled := marketdata.FillCalendarGaps(points, start, end)

	data := map[string]interface{}{
		"symbol": symbol,
		"series": filled,
		"count":  len(filled),
	}

	closes := make([]float64, len(filled))
	for i, p := range filled {
		closes[i] = p.Close
	}
	if period := overlayPeriod(r, "sma"); period > 0 {
		if sma := formulas.CalculateSMA(closes, period); sma != nil {
			data["sma"] = sma
		}
	}
	if period := overlayPeriod(r, "ema"); period > 0 {
		if ema := formulas.CalculateEMA(closes, period); ema != nil {
			data["ema"] = ema
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// parseWindow reads either ?range=1Y or explicit ?start=&end= parameters.
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

func overlayPeriod(r *http.Request, name string) int {
	if v := r.URL.Query().Get(name); v != "" {
		if period, err := strconv.Atoi(v); err == nil && period > 0 {
			return period
		}
	}
	return 0
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
