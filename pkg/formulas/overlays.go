package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateSMA calculates a simple moving average overlay for a price series.
//
// The result is aligned with the input: index i holds the average of the
// period ending at i, and the first period-1 entries are 0 (insufficient
// history). Returns nil when the series is shorter than the period.
func CalculateSMA(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period {
		return nil
	}
	return talib.Sma(closes, period)
}

// CalculateEMA calculates an exponential moving average overlay for a price
// series, aligned like CalculateSMA. Returns nil when the series is shorter
// than the period.
func CalculateEMA(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period {
		return nil
	}
	return talib.Ema(closes, period)
}
