// Package benchmarks provides the static registry of comparison baselines.
package benchmarks

import (
	"fmt"

	"github.com/aristath/meridian/internal/domain"
)

// known is the immutable benchmark reference data. IDs are stable API
// identifiers; symbols are what the routed provider understands.
var known = []domain.Benchmark{
	{ID: "sp500", DisplayName: "S&P 500", Symbol: "^GSPC", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "nasdaq100", DisplayName: "Nasdaq 100", Symbol: "^NDX", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "dowjones", DisplayName: "Dow Jones Industrial Average", Symbol: "^DJI", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "eurostoxx50", DisplayName: "EURO STOXX 50", Symbol: "^STOXX50E", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "ftse100", DisplayName: "FTSE 100", Symbol: "^FTSE", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "nikkei225", DisplayName: "Nikkei 225", Symbol: "^N225", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassIndex},
	{ID: "world-etf", DisplayName: "Vanguard Total World Stock ETF", Symbol: "VT", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassETF},
	{ID: "agg-bonds", DisplayName: "iShares Core US Aggregate Bond ETF", Symbol: "AGG", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassETF},
	{ID: "gold", DisplayName: "SPDR Gold Shares", Symbol: "GLD", ProviderKind: domain.ProviderEquity, AssetClass: domain.AssetClassCommodity},
	{ID: "bitcoin", DisplayName: "Bitcoin", Symbol: "BTC", ProviderKind: domain.ProviderCrypto, AssetClass: domain.AssetClassCrypto},
	{ID: "ethereum", DisplayName: "Ethereum", Symbol: "ETH", ProviderKind: domain.ProviderCrypto, AssetClass: domain.AssetClassCrypto},
}

// Registry serves benchmark lookups from static configuration.
type Registry struct {
	byID    map[string]domain.Benchmark
	ordered []domain.Benchmark
}

// NewRegistry creates the benchmark registry.
func NewRegistry() *Registry {
	byID := make(map[string]domain.Benchmark, len(known))
	for _, b := range known {
		byID[b.ID] = b
	}
	return &Registry{byID: byID, ordered: known}
}

// Get looks up a benchmark by id.
func (r *Registry) Get(id string) (domain.Benchmark, error) {
	b, ok := r.byID[id]
	if !ok {
		return domain.Benchmark{}, fmt.Errorf("benchmark %q: %w", id, domain.ErrInvalidBenchmark)
	}
	return b, nil
}

// List returns all benchmarks in registry order.
func (r *Registry) List() []domain.Benchmark {
	out := make([]domain.Benchmark, len(r.ordered))
	copy(out, r.ordered)
	return out
}
