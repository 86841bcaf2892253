// Package marketdata routes symbols to price providers, orchestrates batch
// fetches, and normalizes raw series onto a calendar-day grid.
package marketdata

import (
	"strings"

	"github.com/aristath/meridian/internal/clients/crypto"
	"github.com/aristath/meridian/internal/domain"
)

// Classification is the routing decision for one symbol.
type Classification struct {
	Symbol string
	Kind   domain.ProviderKind
	// CoinID is set for crypto-classified symbols.
	CoinID string
	// IsIndex marks a market index. Indices never fall back to the crypto
	// provider; an index is not a coin.
	IsIndex bool
}

// Classify resolves a symbol to its provider kind. Order:
//  1. known crypto tickers (the crypto client's static table)
//  2. market-index markers: "^" prefix or ".IDX" suffix
//  3. default: the equity provider
func Classify(symbol string) Classification {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))

	if coinID, ok := crypto.CoinID(trimmed); ok {
		return Classification{Symbol: trimmed, Kind: domain.ProviderCrypto, CoinID: coinID}
	}

	if strings.HasPrefix(trimmed, "^") || strings.HasSuffix(trimmed, ".IDX") {
		return Classification{Symbol: trimmed, Kind: domain.ProviderEquity, IsIndex: true}
	}

	return Classification{Symbol: trimmed, Kind: domain.ProviderEquity}
}

// Fallback returns the provider to retry against when the primary fetch
// fails, and whether such a fallback exists. Each symbol gets at most one
// cross-provider retry.
func Fallback(c Classification) (domain.ProviderKind, bool) {
	if c.IsIndex {
		return "", false
	}
	switch c.Kind {
	case domain.ProviderCrypto:
		return domain.ProviderEquity, true
	case domain.ProviderEquity:
		return domain.ProviderCrypto, true
	default:
		return "", false
	}
}
