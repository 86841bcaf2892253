// Package domain provides core domain models and types.
package domain

// ProviderKind identifies which upstream price source serves a symbol.
type ProviderKind string

const (
	// ProviderEquity is the equity/index source (daily OHLCV).
	ProviderEquity ProviderKind = "equity"
	// ProviderCrypto is the crypto source (hourly samples, downsampled).
	ProviderCrypto ProviderKind = "crypto"
)

// AssetClass categorizes a benchmark's underlying asset type.
type AssetClass string

const (
	AssetClassEquity    AssetClass = "EQUITY"
	AssetClassETF       AssetClass = "ETF"
	AssetClassIndex     AssetClass = "INDEX"
	AssetClassCrypto    AssetClass = "CRYPTO"
	AssetClassBond      AssetClass = "BOND"
	AssetClassCommodity AssetClass = "COMMODITY"
)

// PricePoint is one calendar day of price history for a symbol.
// Within a series, dates are unique and strictly increasing.
type PricePoint struct {
	Date          Date    `json:"date" msgpack:"date"`
	Open          float64 `json:"open" msgpack:"open"`
	High          float64 `json:"high" msgpack:"high"`
	Low           float64 `json:"low" msgpack:"low"`
	Close         float64 `json:"close" msgpack:"close"`
	Volume        float64 `json:"volume" msgpack:"volume"`
	AdjustedClose float64 `json:"adjustedClose" msgpack:"adjustedClose"`
	// Filled marks a synthesized carry-forward point (non-trading day).
	Filled bool `json:"filled,omitempty" msgpack:"filled"`
	// MarketCap is attached opportunistically by the crypto source.
	MarketCap float64 `json:"marketCap,omitempty" msgpack:"marketCap"`
}

// Holding is one portfolio position in a comparison request.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// Benchmark is immutable reference data describing a comparison baseline.
type Benchmark struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"displayName"`
	Symbol       string       `json:"symbol"`
	ProviderKind ProviderKind `json:"providerKind"`
	AssetClass   AssetClass   `json:"assetClass"`
}

// PerformanceDataPoint is one date of the aligned portfolio/benchmark series.
// Cumulative returns are relative to the first point (index 0 is 0 by
// definition); periodReturn[i] = (value[i]-value[i-1])/value[i-1] for i>0.
type PerformanceDataPoint struct {
	Date                      Date    `json:"date"`
	PortfolioValue            float64 `json:"portfolioValue"`
	BenchmarkValue            float64 `json:"benchmarkValue"`
	PortfolioPeriodReturn     float64 `json:"portfolioPeriodReturn"`
	BenchmarkPeriodReturn     float64 `json:"benchmarkPeriodReturn"`
	CumulativePortfolioReturn float64 `json:"cumulativePortfolioReturn"`
	CumulativeBenchmarkReturn float64 `json:"cumulativeBenchmarkReturn"`
}

// HoldingAllocation is one position's share of a fixed-notional simulation.
// AllocationFraction values sum to 1 across a portfolio snapshot.
type HoldingAllocation struct {
	Symbol             string  `json:"symbol"`
	AllocationFraction float64 `json:"allocationFraction"`
	InvestedAmount     float64 `json:"investedAmount"`
	ImpliedQuantity    float64 `json:"impliedQuantity"`
}

// NormalizedComparison is a portfolio and benchmark rescaled to a shared
// starting notional. ImpliedBenchmarkUnits is fixed for the whole comparison:
// startingNotionalValue / benchmarkSeries[0].Close.
type NormalizedComparison struct {
	NormalizedPortfolioSeries []PerformanceDataPoint `json:"normalizedPortfolioSeries"`
	NormalizedBenchmarkSeries []PerformanceDataPoint `json:"normalizedBenchmarkSeries"`
	StartingNotionalValue     float64                `json:"startingNotionalValue"`
	ImpliedBenchmarkUnits     float64                `json:"impliedBenchmarkUnits"`
}

// Metrics summarizes portfolio risk/return plus benchmark-relative measures.
type Metrics struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
	Beta             float64 `json:"beta"`
	Alpha            float64 `json:"alpha"`
	InformationRatio float64 `json:"informationRatio"`
	TrackingError    float64 `json:"trackingError"`
}

// FetchOutcome carries one symbol's fetch result through the pipeline as an
// explicit value: either a series or a typed error, never both.
type FetchOutcome struct {
	Symbol string
	Points []PricePoint
	Err    error
}

// WarningCode classifies a soft degradation attached to a result.
type WarningCode string

const (
	// WarnHoldingDataUnavailable - a holding's fetch failed; its last known
	// value is carried forward for the whole range.
	WarnHoldingDataUnavailable WarningCode = "HOLDING_DATA_UNAVAILABLE"
	// WarnSeriesTruncated - data starts later than the requested start date.
	WarnSeriesTruncated WarningCode = "SERIES_TRUNCATED"
	// WarnBenchmarkGapFilled - benchmark values were carried forward for
	// dates the benchmark series does not cover.
	WarnBenchmarkGapFilled WarningCode = "BENCHMARK_GAP_FILLED"
)

// Warning reports a non-fatal degradation alongside a successful result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Symbol  string      `json:"symbol,omitempty"`
	Message string      `json:"message"`
}
