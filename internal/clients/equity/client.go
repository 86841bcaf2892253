// Package equity provides the client for the equity/index price source.
// The upstream is a Yahoo-finance-chart-shaped API returning pre-aggregated
// daily OHLCV keyed by integer Unix timestamps.
package equity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/clients/ratelimit"
	"github.com/aristath/meridian/internal/domain"
)

// The provider rejects default Go user agents, so requests mimic a browser.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches daily price history from the equity/index provider.
// All requests go through the shared rate-limited executor.
type Client struct {
	baseURL string
	exec    *ratelimit.Executor
	log     zerolog.Logger
}

// NewClient creates a new equity client.
func NewClient(baseURL string, exec *ratelimit.Executor, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		exec:    exec,
		log:     log.With().Str("client", "equity").Logger(),
	}
}

// SeriesMeta is per-response provider metadata.
type SeriesMeta struct {
	Currency string `json:"currency"`
	Exchange string `json:"exchangeName"`
}

// chartResponse mirrors the provider's chart API shape: parallel arrays of
// quote values keyed by integer timestamps, plus adjusted closes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta       SeriesMeta `json:"meta"`
			Timestamp  []int64    `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// FetchSeries fetches the daily OHLCV series for a symbol within [start, end].
// Rows missing all of open/high/low/close contribute no PricePoint.
func (c *Client) FetchSeries(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, error) {
	points, _, err := c.FetchSeriesWithMeta(ctx, symbol, start, end)
	return points, err
}

// FetchSeriesWithMeta is FetchSeries plus the response metadata.
func (c *Client) FetchSeriesWithMeta(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, SeriesMeta, error) {
	var meta SeriesMeta

	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("period1", fmt.Sprintf("%d", start.Unix()))
	// period2 is exclusive upstream; push it past the end of the last day.
	params.Add("period2", fmt.Sprintf("%d", end.AddDays(1).Unix()))

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to create request for %s: %w", symbol, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	body, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch series for %s: %w", symbol, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, meta, fmt.Errorf("failed to parse response for %s: %v: %w", symbol, err, domain.ErrProviderUnavailable)
	}

	if parsed.Chart.Error != nil {
		return nil, meta, fmt.Errorf("provider error for %s: %v: %w", symbol, parsed.Chart.Error, domain.ErrProviderUnavailable)
	}

	if len(parsed.Chart.Result) == 0 {
		return nil, meta, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNoDataForSymbol)
	}

	chartData := parsed.Chart.Result[0]
	meta = chartData.Meta

	if len(chartData.Indicators.Quote) == 0 {
		return nil, meta, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNoDataForSymbol)
	}

	quote := chartData.Indicators.Quote[0]

	var adjCloseData []float64
	if len(chartData.Indicators.AdjClose) > 0 {
		adjCloseData = chartData.Indicators.AdjClose[0].AdjClose
	}

	var points []domain.PricePoint
	for i, ts := range chartData.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// The provider marks non-trading timestamps with all-zero rows.
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		adjClose := quote.Close[i]
		if i < len(adjCloseData) && adjCloseData[i] != 0 {
			adjClose = adjCloseData[i]
		}

		volume := 0.0
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		points = append(points, domain.PricePoint{
			Date:          domain.DateOf(time.Unix(ts, 0)),
			Open:          quote.Open[i],
			High:          quote.High[i],
			Low:           quote.Low[i],
			Close:         quote.Close[i],
			Volume:        volume,
			AdjustedClose: adjClose,
		})
	}

	if len(points) == 0 {
		return nil, meta, fmt.Errorf("symbol %s: %w", symbol, domain.ErrNoDataForSymbol)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("start", start.String()).
		Str("end", end.String()).
		Int("count", len(points)).
		Msg("Fetched equity series")

	return points, meta, nil
}
