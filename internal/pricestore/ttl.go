package pricestore

import "time"

// TTL constants for stored series.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLSeries - single-symbol history for the comparison hot path.
	TTLSeries = 10 * time.Minute
	// TTLBenchmarkSeries - benchmark/index history; coarse queries tolerate
	// staler data.
	TTLBenchmarkSeries = time.Hour
)
