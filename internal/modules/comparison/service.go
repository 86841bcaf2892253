package comparison

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/cache"
	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/modules/benchmarks"
	"github.com/aristath/meridian/internal/modules/marketdata"
)

// Mode selects how the portfolio and benchmark are put on a common scale.
type Mode string

const (
	// ModeRelative rescales the benchmark to the portfolio's starting value.
	ModeRelative Mode = "relative"
	// ModeFixedNotional replays a hypothetical amount split by current
	// allocation weights.
	ModeFixedNotional Mode = "fixed-notional"
)

// MarketData is the price-fetching surface the comparison pipeline needs.
type MarketData interface {
	FetchOne(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, error)
	FetchAll(ctx context.Context, symbols []string, start, end domain.Date) map[string]domain.FetchOutcome
}

// Request is one comparison query.
type Request struct {
	Holdings       []domain.Holding
	BenchmarkID    string
	Start          domain.Date
	End            domain.Date
	Mode           Mode
	NotionalAmount float64
}

// Result is a complete comparison: aligned series, allocations when the
// fixed-notional mode was used, summary metrics, and soft warnings.
type Result struct {
	NormalizedPortfolioSeries []domain.PerformanceDataPoint `json:"normalizedPortfolioSeries"`
	NormalizedBenchmarkSeries []domain.PerformanceDataPoint `json:"normalizedBenchmarkSeries"`
	StartingNotionalValue     float64                       `json:"startingNotionalValue"`
	ImpliedBenchmarkUnits     float64                       `json:"impliedBenchmarkUnits"`
	Allocations               []domain.HoldingAllocation    `json:"allocations,omitempty"`
	Metrics                   domain.Metrics                `json:"metrics"`
	Warnings                  []domain.Warning              `json:"warnings"`
}

// Config tunes the comparison pipeline.
type Config struct {
	// DateToleranceDays bounds nearest-date matching.
	DateToleranceDays int
	// RiskFreeRate is the annual risk-free rate for Sharpe and alpha.
	RiskFreeRate float64
	// DefaultNotional is used when a fixed-notional request omits the amount.
	DefaultNotional float64
	// ResultTTL is how long computed comparisons stay cached.
	ResultTTL time.Duration
}

// Service runs the comparison pipeline: fetch, gap-fill, value, normalize,
// measure. Whole results are cached by query parameters.
type Service struct {
	market   MarketData
	registry *benchmarks.Registry
	results  *cache.Cache[string, Result]
	cfg      Config
	log      zerolog.Logger
}

// NewService creates a comparison service. results may be nil to disable
// result caching.
func NewService(market MarketData, registry *benchmarks.Registry, results *cache.Cache[string, Result], cfg Config, log zerolog.Logger) *Service {
	if cfg.DateToleranceDays <= 0 {
		cfg.DateToleranceDays = 7
	}
	if cfg.DefaultNotional <= 0 {
		cfg.DefaultNotional = 10000
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 10 * time.Minute
	}
	return &Service{
		market:   market,
		registry: registry,
		results:  results,
		cfg:      cfg,
		log:      log.With().Str("service", "comparison").Logger(),
	}
}

// Compare executes one comparison request end to end.
func (s *Service) Compare(ctx context.Context, req Request) (Result, error) {
	if len(req.Holdings) == 0 {
		return Result{}, domain.ErrEmptyComparisonInput
	}
	if req.Mode == "" {
		req.Mode = ModeRelative
	}
	if req.NotionalAmount <= 0 {
		req.NotionalAmount = s.cfg.DefaultNotional
	}

	benchmark, err := s.registry.Get(req.BenchmarkID)
	if err != nil {
		return Result{}, err
	}

	if s.results == nil {
		return s.compute(ctx, req, benchmark)
	}
	return s.results.GetOrCompute(cacheKey(req), s.cfg.ResultTTL, func() (Result, error) {
		return s.compute(ctx, req, benchmark)
	})
}

func (s *Service) compute(ctx context.Context, req Request, benchmark domain.Benchmark) (Result, error) {
	benchRaw, err := s.market.FetchOne(ctx, benchmark.Symbol, req.Start, req.End)
	if err != nil {
		return Result{}, domain.NewBenchmarkError(benchmark.ID, req.Start, req.End, err)
	}
	benchSeries := marketdata.FillCalendarGaps(benchRaw, req.Start, req.End)
	if len(benchSeries) == 0 {
		return Result{}, domain.NewBenchmarkError(benchmark.ID, req.Start, req.End, domain.ErrNoDataForDateRange)
	}

	symbols := make([]string, 0, len(req.Holdings))
	for _, h := range req.Holdings {
		symbols = append(symbols, h.Symbol)
	}

	outcomes := s.market.FetchAll(ctx, symbols, req.Start, req.End)

	var warnings []domain.Warning
	raw := make(map[string][]domain.PricePoint, len(outcomes))
	for _, sym := range symbols {
		o := outcomes[sym]
		if o.Err != nil {
			s.log.Warn().Err(o.Err).Str("symbol", sym).Msg("Holding fetch failed, degrading to carried-forward value")
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnHoldingDataUnavailable,
				Symbol:  sym,
				Message: fmt.Sprintf("no data for %s; holding valued at last known price for the whole range", sym),
			})
			continue
		}
		if len(o.Points) > 0 && req.Start.Before(o.Points[0].Date) {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnSeriesTruncated,
				Symbol:  sym,
				Message: fmt.Sprintf("data for %s starts %s, after the requested start %s", sym, o.Points[0].Date, req.Start),
			})
		}
		raw[sym] = o.Points
	}

	series := marketdata.FillAll(raw, req.Start, req.End)

	holdings := req.Holdings
	var allocations []domain.HoldingAllocation
	if req.Mode == ModeFixedNotional {
		allocations = BuildAllocations(req.Holdings, series, req.NotionalAmount)
		holdings = ImpliedHoldings(allocations)
	}

	portfolio := BuildPortfolioSeries(holdings, series, req.Start, req.End, s.cfg.DateToleranceDays)
	if len(portfolio) == 0 {
		return Result{}, fmt.Errorf("no holding has data in range: %w", domain.ErrNoDataForDateRange)
	}

	normalized, normWarnings := Normalize(portfolio, benchSeries, s.cfg.DateToleranceDays)
	warnings = append(warnings, normWarnings...)

	merged := mergeSeries(normalized.NormalizedPortfolioSeries, normalized.NormalizedBenchmarkSeries)

	return Result{
		NormalizedPortfolioSeries: normalized.NormalizedPortfolioSeries,
		NormalizedBenchmarkSeries: normalized.NormalizedBenchmarkSeries,
		StartingNotionalValue:     normalized.StartingNotionalValue,
		ImpliedBenchmarkUnits:     normalized.ImpliedBenchmarkUnits,
		Allocations:               allocations,
		Metrics:                   CalculateMetrics(merged, s.cfg.RiskFreeRate),
		Warnings:                  warnings,
	}, nil
}

// mergeSeries zips the index-aligned portfolio and benchmark series into one
// sequence carrying both value columns, for the metrics calculator.
func mergeSeries(portfolio, benchmark []domain.PerformanceDataPoint) []domain.PerformanceDataPoint {
	merged := make([]domain.PerformanceDataPoint, len(portfolio))
	copy(merged, portfolio)
	for i := range merged {
		if i < len(benchmark) {
			merged[i].BenchmarkValue = benchmark[i].BenchmarkValue
			merged[i].BenchmarkPeriodReturn = benchmark[i].BenchmarkPeriodReturn
			merged[i].CumulativeBenchmarkReturn = benchmark[i].CumulativeBenchmarkReturn
		}
	}
	return merged
}

// cacheKey builds a deterministic key from the query parameters. Holdings
// are sorted so logically identical requests share an entry.
func cacheKey(req Request) string {
	parts := make([]string, 0, len(req.Holdings))
	for _, h := range req.Holdings {
		parts = append(parts, fmt.Sprintf("%s:%g", h.Symbol, h.Quantity))
	}
	sort.Strings(parts)

	return fmt.Sprintf("%s|%s|%s|%s|%g|%s",
		req.BenchmarkID, req.Start, req.End, req.Mode, req.NotionalAmount,
		strings.Join(parts, ","))
}
