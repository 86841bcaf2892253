package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/meridian/internal/cache"
	"github.com/aristath/meridian/internal/modules/comparison"
	"github.com/aristath/meridian/internal/pricestore"
)

// SystemHandlers serves runtime health and utilization information.
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	results     *cache.Cache[string, comparison.Result]
	store       *pricestore.Store
}

// NewSystemHandlers creates new system handlers. results and store may be
// nil when those layers are disabled.
func NewSystemHandlers(results *cache.Cache[string, comparison.Result], store *pricestore.Store, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		results:     results,
		store:       store,
	}
}

// HandleSystemStatus returns uptime, CPU/memory utilization, and cache
// statistics.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := map[string]interface{}{
		"service":        "meridian",
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"cpu_percent":    cpuPercent,
		"ram_percent":    ramPercent,
	}

	if h.results != nil {
		response["result_cache"] = h.results.Stats()
	}
	if h.store != nil {
		stats, err := h.store.Stats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read price store stats")
		} else {
			response["price_store"] = stats
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats calculates CPU and RAM usage percentages. A 100ms sample
// keeps the endpoint responsive for pollers.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
