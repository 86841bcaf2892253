package comparison

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/meridian/internal/domain"
)

func scenarioSeries(t *testing.T) ([]domain.PerformanceDataPoint, []domain.PricePoint) {
	t.Helper()

	// One holding, 10 shares at $10: closes [10,10,11,9,12] over five
	// consecutive days, benchmark [100,100,110,90,120].
	closes := []float64{10, 10, 11, 9, 12}
	benchCloses := []float64{100, 100, 110, 90, 120}

	series := make([]domain.PricePoint, len(closes))
	bench := make([]domain.PricePoint, len(benchCloses))
	for i := range closes {
		date := domain.NewDate(2024, time.January, 2+i)
		series[i] = pricePoint(date, closes[i])
		bench[i] = pricePoint(date, benchCloses[i])
	}

	portfolio := BuildPortfolioSeries(
		[]domain.Holding{{Symbol: "AAPL", Quantity: 10}},
		map[string][]domain.PricePoint{"AAPL": series},
		series[0].Date, series[len(series)-1].Date, 7)
	require.Len(t, portfolio, 5)

	return portfolio, bench
}

func TestNormalize_StartingEquality(t *testing.T) {
	portfolio, bench := scenarioSeries(t)

	norm, warnings := Normalize(portfolio, bench, 7)
	require.Empty(t, warnings)

	assert.InDelta(t, norm.NormalizedPortfolioSeries[0].PortfolioValue,
		norm.NormalizedBenchmarkSeries[0].BenchmarkValue, 1e-9,
		"first portfolio and benchmark values must be equal")
}

func TestNormalize_ScenarioValues(t *testing.T) {
	portfolio, bench := scenarioSeries(t)

	norm, _ := Normalize(portfolio, bench, 7)

	assert.InDelta(t, 100.0, norm.StartingNotionalValue, 1e-9)
	assert.InDelta(t, 1.0, norm.ImpliedBenchmarkUnits, 1e-9)

	last := len(norm.NormalizedBenchmarkSeries) - 1
	assert.InDelta(t, 120.0, norm.NormalizedPortfolioSeries[last].PortfolioValue, 1e-9)
	assert.InDelta(t, 120.0, norm.NormalizedBenchmarkSeries[last].BenchmarkValue, 1e-9)
	assert.InDelta(t, 0.20, norm.NormalizedPortfolioSeries[last].CumulativePortfolioReturn, 1e-9)
	assert.InDelta(t, 0.20, norm.NormalizedBenchmarkSeries[last].CumulativeBenchmarkReturn, 1e-9)
}

func TestNormalize_UnitConservation(t *testing.T) {
	portfolio, bench := scenarioSeries(t)

	norm, _ := Normalize(portfolio, bench, 7)

	last := len(bench) - 1
	assert.InDelta(t,
		norm.ImpliedBenchmarkUnits*bench[last].Close,
		norm.NormalizedBenchmarkSeries[last].BenchmarkValue, 1e-9)
}

func TestNormalize_BenchmarkGapCarriesForward(t *testing.T) {
	portfolio, _ := scenarioSeries(t)

	// Benchmark covers only the first two portfolio dates; with zero
	// tolerance the remaining dates have no match at all.
	bench := []domain.PricePoint{
		pricePoint(domain.NewDate(2024, time.January, 2), 100),
		pricePoint(domain.NewDate(2024, time.January, 3), 110),
	}

	norm, warnings := Normalize(portfolio, bench, 0)
	require.Len(t, norm.NormalizedBenchmarkSeries, len(portfolio))

	// Dates 3..5 have no exact benchmark match under zero tolerance: the
	// Jan 3 value carries forward with zero period returns.
	assert.InDelta(t, 110.0, norm.NormalizedBenchmarkSeries[2].BenchmarkValue, 1e-9)
	assert.InDelta(t, 110.0, norm.NormalizedBenchmarkSeries[4].BenchmarkValue, 1e-9)
	assert.Zero(t, norm.NormalizedBenchmarkSeries[3].BenchmarkPeriodReturn)

	require.NotEmpty(t, warnings)
	assert.Equal(t, domain.WarnBenchmarkGapFilled, warnings[0].Code)
}

func TestNormalize_EmptyInputs(t *testing.T) {
	norm, warnings := Normalize(nil, nil, 7)
	assert.Empty(t, norm.NormalizedBenchmarkSeries)
	assert.Empty(t, warnings)
}

func TestBuildAllocations(t *testing.T) {
	series := map[string][]domain.PricePoint{
		"AAPL": {
			pricePoint(domain.NewDate(2024, time.January, 2), 100),
			pricePoint(domain.NewDate(2024, time.June, 28), 150),
		},
		"MSFT": {
			pricePoint(domain.NewDate(2024, time.January, 2), 200),
			pricePoint(domain.NewDate(2024, time.June, 28), 250),
		},
	}
	holdings := []domain.Holding{
		{Symbol: "AAPL", Quantity: 10}, // current value 1500
		{Symbol: "MSFT", Quantity: 2},  // current value 500
	}

	allocations := BuildAllocations(holdings, series, 10000)
	require.Len(t, allocations, 2)

	fractionSum := 0.0
	for _, a := range allocations {
		fractionSum += a.AllocationFraction
	}
	assert.InDelta(t, 1.0, fractionSum, 1e-9)

	assert.InDelta(t, 0.75, allocations[0].AllocationFraction, 1e-9)
	assert.InDelta(t, 7500.0, allocations[0].InvestedAmount, 1e-9)
	// Replayed from the start: 7500 invested at the Jan 2 close of 100.
	assert.InDelta(t, 75.0, allocations[0].ImpliedQuantity, 1e-9)

	assert.InDelta(t, 2500.0, allocations[1].InvestedAmount, 1e-9)
	assert.InDelta(t, 12.5, allocations[1].ImpliedQuantity, 1e-9)
}

func TestBuildAllocations_SkipsMissingSeries(t *testing.T) {
	series := map[string][]domain.PricePoint{
		"AAPL": {pricePoint(domain.NewDate(2024, time.January, 2), 100)},
	}
	holdings := []domain.Holding{
		{Symbol: "AAPL", Quantity: 1},
		{Symbol: "GHOST", Quantity: 5},
	}

	allocations := BuildAllocations(holdings, series, 10000)
	require.Len(t, allocations, 1)
	assert.Equal(t, "AAPL", allocations[0].Symbol)
	assert.InDelta(t, 1.0, allocations[0].AllocationFraction, 1e-9)
}

func TestBuildAllocations_NoData(t *testing.T) {
	assert.Nil(t, BuildAllocations([]domain.Holding{{Symbol: "AAPL", Quantity: 1}}, nil, 10000))
}
