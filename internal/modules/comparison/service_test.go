package comparison

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/meridian/internal/cache"
	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/modules/benchmarks"
)

type fakeMarket struct {
	series        map[string][]domain.PricePoint
	errs          map[string]error
	fetchAllCalls int
}

func (f *fakeMarket) FetchOne(_ context.Context, symbol string, _, _ domain.Date) ([]domain.PricePoint, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if points, ok := f.series[symbol]; ok {
		return points, nil
	}
	return nil, domain.ErrNoDataForSymbol
}

func (f *fakeMarket) FetchAll(ctx context.Context, symbols []string, start, end domain.Date) map[string]domain.FetchOutcome {
	f.fetchAllCalls++
	outcomes := make(map[string]domain.FetchOutcome, len(symbols))
	for _, sym := range symbols {
		points, err := f.FetchOne(ctx, sym, start, end)
		outcomes[sym] = domain.FetchOutcome{Symbol: sym, Points: points, Err: err}
	}
	return outcomes
}

func dailySeries(start domain.Date, closes ...float64) []domain.PricePoint {
	points := make([]domain.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = pricePoint(start.AddDays(i), c)
	}
	return points
}

func newTestService(market MarketData) *Service {
	return NewService(market, benchmarks.NewRegistry(), nil, Config{RiskFreeRate: 0.02}, zerolog.Nop())
}

func scenarioRequest() Request {
	return Request{
		Holdings:    []domain.Holding{{Symbol: "AAPL", Quantity: 10}},
		BenchmarkID: "sp500",
		Start:       domain.NewDate(2024, time.January, 2),
		End:         domain.NewDate(2024, time.January, 6),
	}
}

func scenarioMarket() *fakeMarket {
	start := domain.NewDate(2024, time.January, 2)
	return &fakeMarket{
		series: map[string][]domain.PricePoint{
			"AAPL":  dailySeries(start, 10, 10, 11, 9, 12),
			"^GSPC": dailySeries(start, 100, 100, 110, 90, 120),
		},
	}
}

func TestCompare_Relative(t *testing.T) {
	svc := newTestService(scenarioMarket())

	result, err := svc.Compare(context.Background(), scenarioRequest())
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.StartingNotionalValue, 1e-9)
	assert.InDelta(t, 1.0, result.ImpliedBenchmarkUnits, 1e-9)
	assert.InDelta(t, 0.20, result.Metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 0.0, result.Metrics.Alpha, 1e-6)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Allocations)

	last := len(result.NormalizedBenchmarkSeries) - 1
	assert.InDelta(t, 120.0, result.NormalizedPortfolioSeries[last].PortfolioValue, 1e-9)
	assert.InDelta(t, 120.0, result.NormalizedBenchmarkSeries[last].BenchmarkValue, 1e-9)
}

func TestCompare_FixedNotional(t *testing.T) {
	svc := newTestService(scenarioMarket())

	req := scenarioRequest()
	req.Mode = ModeFixedNotional

	result, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.InDelta(t, 1.0, result.Allocations[0].AllocationFraction, 1e-9)
	assert.InDelta(t, 10000.0, result.Allocations[0].InvestedAmount, 1e-9)
	assert.InDelta(t, 1000.0, result.Allocations[0].ImpliedQuantity, 1e-9)

	assert.InDelta(t, 10000.0, result.StartingNotionalValue, 1e-9)
	assert.InDelta(t, 100.0, result.ImpliedBenchmarkUnits, 1e-9)
	assert.InDelta(t, 0.20, result.Metrics.TotalReturn, 1e-9)
}

func TestCompare_FailedHoldingDegradesWithWarning(t *testing.T) {
	market := scenarioMarket()
	market.errs = map[string]error{"MSFT": domain.ErrProviderUnavailable}
	svc := newTestService(market)

	req := scenarioRequest()
	req.Holdings = append(req.Holdings, domain.Holding{Symbol: "MSFT", Quantity: 5})

	result, err := svc.Compare(context.Background(), req)
	require.NoError(t, err, "one failed holding must not fail the comparison")

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.WarnHoldingDataUnavailable, result.Warnings[0].Code)
	assert.Equal(t, "MSFT", result.Warnings[0].Symbol)

	// The failed holding contributes nothing; the survivor drives values.
	assert.InDelta(t, 100.0, result.NormalizedPortfolioSeries[0].PortfolioValue, 1e-9)
}

func TestCompare_TruncatedSeriesWarning(t *testing.T) {
	market := scenarioMarket()
	svc := newTestService(market)

	req := scenarioRequest()
	req.Start = domain.NewDate(2023, time.December, 1)

	result, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)

	var codes []domain.WarningCode
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, domain.WarnSeriesTruncated)
}

func TestCompare_EmptyHoldings(t *testing.T) {
	svc := newTestService(scenarioMarket())

	req := scenarioRequest()
	req.Holdings = nil

	_, err := svc.Compare(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmptyComparisonInput)
}

func TestCompare_UnknownBenchmark(t *testing.T) {
	svc := newTestService(scenarioMarket())

	req := scenarioRequest()
	req.BenchmarkID = "nope"

	_, err := svc.Compare(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidBenchmark)
}

func TestCompare_BenchmarkFailureIsFatal(t *testing.T) {
	market := scenarioMarket()
	market.errs = map[string]error{"^GSPC": domain.ErrRateLimited}
	svc := newTestService(market)

	_, err := svc.Compare(context.Background(), scenarioRequest())
	require.Error(t, err)

	var be *domain.BenchmarkError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "sp500", be.BenchmarkID)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestCompare_AllHoldingsFailed(t *testing.T) {
	market := scenarioMarket()
	market.errs = map[string]error{"AAPL": domain.ErrProviderUnavailable}
	svc := newTestService(market)

	_, err := svc.Compare(context.Background(), scenarioRequest())
	assert.ErrorIs(t, err, domain.ErrNoDataForDateRange)
}

func TestCompare_CachesResults(t *testing.T) {
	market := scenarioMarket()
	results := cache.New[string, Result](time.Minute, time.Minute)
	defer results.Stop()

	svc := NewService(market, benchmarks.NewRegistry(), results, Config{RiskFreeRate: 0.02}, zerolog.Nop())

	_, err := svc.Compare(context.Background(), scenarioRequest())
	require.NoError(t, err)
	_, err = svc.Compare(context.Background(), scenarioRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, market.fetchAllCalls, "second identical request must hit the result cache")
}
