package domain

import (
	"errors"
	"fmt"
)

// Engine error kinds. Callers classify with errors.Is.
var (
	// ErrProviderUnavailable - upstream returned a non-2xx, non-429 response.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrRateLimited - retries exhausted after repeated 429 responses.
	ErrRateLimited = errors.New("rate limited")
	// ErrNoDataForSymbol - the provider returned an empty series.
	ErrNoDataForSymbol = errors.New("no data for symbol")
	// ErrNoDataForDateRange - the symbol has data, none within the range.
	ErrNoDataForDateRange = errors.New("no data for date range")
	// ErrInvalidBenchmark - unknown benchmark id.
	ErrInvalidBenchmark = errors.New("invalid benchmark")
	// ErrEmptyComparisonInput - a comparison was requested with no holdings.
	ErrEmptyComparisonInput = errors.New("empty comparison input")
)

// BenchmarkError is a fatal benchmark failure carrying enough detail for the
// caller to retry with different parameters.
type BenchmarkError struct {
	BenchmarkID string
	Start       Date
	End         Date
	Err         error
}

func (e *BenchmarkError) Error() string {
	return fmt.Sprintf("benchmark %s (%s to %s): %v", e.BenchmarkID, e.Start, e.End, e.Err)
}

func (e *BenchmarkError) Unwrap() error {
	return e.Err
}

// NewBenchmarkError wraps err with the benchmark id and date range.
func NewBenchmarkError(id string, start, end Date, err error) *BenchmarkError {
	return &BenchmarkError{BenchmarkID: id, Start: start, End: end, Err: err}
}

// SymbolError ties a fetch failure to the symbol that caused it.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %s: %v", e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// NewSymbolError wraps err with the failing symbol.
func NewSymbolError(symbol string, err error) *SymbolError {
	return &SymbolError{Symbol: symbol, Err: err}
}
