// Package crypto provides the client for the crypto price source. The
// upstream is a CoinGecko-market_chart-shaped API returning hourly samples
// as parallel [timestamp, value] arrays for prices, market caps, and
// volumes; the client downsamples them to one point per UTC calendar day.
package crypto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/clients/ratelimit"
	"github.com/aristath/meridian/internal/domain"
)

// knownCoins maps ticker symbols to provider coin IDs. This is the static
// classification table the source router consults; a symbol present here is
// served by the crypto provider.
var knownCoins = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"USDC":  "usd-coin",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"AVAX":  "avalanche-2",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
	"LTC":   "litecoin",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"XLM":   "stellar",
	"XMR":   "monero",
	"ETC":   "ethereum-classic",
	"BCH":   "bitcoin-cash",
}

// CoinID resolves a ticker symbol to the provider's coin ID.
func CoinID(symbol string) (string, bool) {
	id, ok := knownCoins[strings.ToUpper(strings.TrimSpace(symbol))]
	return id, ok
}

// Client fetches price history from the crypto provider. Its rate limit is
// materially tighter than the equity provider's, so the executor it is
// given runs with a larger minimum interval and callers fetch sequentially.
type Client struct {
	baseURL string
	exec    *ratelimit.Executor
	log     zerolog.Logger
}

// NewClient creates a new crypto client.
func NewClient(baseURL string, exec *ratelimit.Executor, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		exec:    exec,
		log:     log.With().Str("client", "crypto").Logger(),
	}
}

// marketChartResponse mirrors the provider's range endpoint: three parallel
// arrays of [timestampMillis, value] pairs.
type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// FetchSeries fetches hourly samples for a symbol within [start, end] and
// downsamples them to one PricePoint per UTC calendar day.
func (c *Client) FetchSeries(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, error) {
	coinID, ok := CoinID(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %s is not a known coin: %w", symbol, domain.ErrNoDataForSymbol)
	}

	params := url.Values{}
	params.Add("vs_currency", "usd")
	params.Add("from", fmt.Sprintf("%d", start.Unix()))
	params.Add("to", fmt.Sprintf("%d", end.AddDays(1).Unix()))

	reqURL := c.baseURL + "/api/v3/coins/" + url.PathEscape(coinID) + "/market_chart/range?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", symbol, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series for %s: %w", symbol, err)
	}

	var parsed marketChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response for %s: %v: %w", symbol, err, domain.ErrProviderUnavailable)
	}

	if len(parsed.Prices) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNoDataForSymbol)
	}

	points := Downsample(parsed)

	c.log.Debug().
		Str("symbol", symbol).
		Str("coin_id", coinID).
		Int("samples", len(parsed.Prices)).
		Int("days", len(points)).
		Msg("Fetched crypto series")

	return points, nil
}
