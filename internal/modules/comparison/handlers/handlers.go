// Package handlers provides HTTP handlers for the comparison API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/modules/comparison"
	"github.com/aristath/meridian/internal/modules/marketdata"
)

// Handler handles comparison HTTP requests
type Handler struct {
	service *comparison.Service
	log     zerolog.Logger
}

// NewHandler creates a new comparison handler
func NewHandler(service *comparison.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "comparison").Logger(),
	}
}

type compareRequest struct {
	Holdings       []domain.Holding `json:"holdings"`
	BenchmarkID    string           `json:"benchmarkId"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	Range          string           `json:"range"`
	Mode           string           `json:"mode"`
	NotionalAmount float64          `json:"notionalAmount"`
}

// HandleCompare handles POST /api/comparison.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var body compareRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := h.buildRequest(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Compare(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("benchmark", req.BenchmarkID).Msg("Comparison failed")
		switch {
		case errors.Is(err, domain.ErrEmptyComparisonInput):
			h.writeError(w, http.StatusBadRequest, "at least one holding is required")
		case errors.Is(err, domain.ErrInvalidBenchmark):
			h.writeError(w, http.StatusNotFound, "unknown benchmark "+req.BenchmarkID)
		case errors.Is(err, domain.ErrRateLimited):
			h.writeError(w, http.StatusTooManyRequests, "provider rate limited, try again later")
		case errors.Is(err, domain.ErrNoDataForDateRange), errors.Is(err, domain.ErrNoDataForSymbol):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.writeError(w, http.StatusBadGateway, "comparison failed")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"requestId": uuid.New().String(),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// buildRequest validates the JSON body and resolves the date window.
func (h *Handler) buildRequest(body compareRequest) (comparison.Request, error) {
	var start, end domain.Date
	var err error

	if body.Range != "" {
		start, end, err = marketdata.ParseRange(body.Range, time.Now())
	} else {
		start, err = domain.ParseDate(body.StartDate)
		if err == nil {
			end, err = domain.ParseDate(body.EndDate)
		}
	}
	if err != nil {
		return comparison.Request{}, err
	}
	if end.Before(start) {
		return comparison.Request{}, errors.New("endDate is before startDate")
	}

	mode := comparison.Mode(body.Mode)
	switch mode {
	case "", comparison.ModeRelative, comparison.ModeFixedNotional:
	default:
		return comparison.Request{}, errors.New("mode must be relative or fixed-notional")
	}

	return comparison.Request{
		Holdings:       body.Holdings,
		BenchmarkID:    body.BenchmarkID,
		Start:          start,
		End:            end,
		Mode:           mode,
		NotionalAmount: body.NotionalAmount,
	}, nil
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
