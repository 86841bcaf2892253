package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBenchmarkError_WrapsKind(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.June, 30)
	err := NewBenchmarkError("sp500", start, end, ErrProviderUnavailable)

	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Contains(t, err.Error(), "sp500")
	assert.Contains(t, err.Error(), "2024-01-01")
	assert.Contains(t, err.Error(), "2024-06-30")

	var be *BenchmarkError
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, "sp500", be.BenchmarkID)
}

func TestSymbolError_WrapsKind(t *testing.T) {
	err := NewSymbolError("AAPL", fmt.Errorf("fetch: %w", ErrRateLimited))

	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "AAPL")

	var se *SymbolError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "AAPL", se.Symbol)
}
