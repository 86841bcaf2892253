package crypto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/meridian/internal/clients/ratelimit"
	"github.com/aristath/meridian/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	exec := ratelimit.NewExecutor(ratelimit.Config{MinInterval: time.Millisecond}, zerolog.Nop())
	t.Cleanup(exec.Close)

	return NewClient(srv.URL, exec, zerolog.Nop())
}

func millis(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func TestCoinID(t *testing.T) {
	tests := []struct {
		symbol string
		wantID string
		wantOK bool
	}{
		{"BTC", "bitcoin", true},
		{"btc", "bitcoin", true},
		{" eth ", "ethereum", true},
		{"AAPL", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		id, ok := CoinID(tt.symbol)
		assert.Equal(t, tt.wantOK, ok, tt.symbol)
		assert.Equal(t, tt.wantID, id, tt.symbol)
	}
}

func TestDownsample_LatestSamplePerDayWins(t *testing.T) {
	resp := marketChartResponse{
		Prices: [][2]float64{
			{float64(millis(2024, time.March, 1, 8)), 61000},
			{float64(millis(2024, time.March, 1, 23)), 62000}, // latest of day 1
			{float64(millis(2024, time.March, 2, 1)), 62500},
			{float64(millis(2024, time.March, 2, 12)), 63000}, // latest of day 2
		},
	}

	points := Downsample(resp)
	require.Len(t, points, 2)

	assert.Equal(t, "2024-03-01", points[0].Date.String())
	assert.InDelta(t, 62000.0, points[0].Close, 1e-9)
	// No true OHLC upstream: all four legs equal the chosen close.
	assert.Equal(t, points[0].Close, points[0].Open)
	assert.Equal(t, points[0].Close, points[0].High)
	assert.Equal(t, points[0].Close, points[0].Low)

	assert.Equal(t, "2024-03-02", points[1].Date.String())
	assert.InDelta(t, 63000.0, points[1].Close, 1e-9)
}

func TestDownsample_MetadataAttachesOnExactTimestampOnly(t *testing.T) {
	chosen := millis(2024, time.March, 1, 23)
	resp := marketChartResponse{
		Prices: [][2]float64{
			{float64(millis(2024, time.March, 1, 8)), 61000},
			{float64(chosen), 62000},
		},
		MarketCaps: [][2]float64{
			{float64(chosen), 1.2e12},
		},
		TotalVolumes: [][2]float64{
			// Off by an hour from the chosen sample: must not attach.
			{float64(millis(2024, time.March, 1, 22)), 3.4e10},
		},
	}

	points := Downsample(resp)
	require.Len(t, points, 1)
	assert.InDelta(t, 1.2e12, points[0].MarketCap, 1e-3)
	assert.Zero(t, points[0].Volume)
}

func TestFetchSeries_DownsamplesHourlySamples(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/v3/coins/bitcoin/market_chart/range")
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		fmt.Fprintf(w, `{"prices":[[%d,61000],[%d,62000],[%d,63000]],"market_caps":[],"total_volumes":[]}`,
			millis(2024, time.March, 1, 8), millis(2024, time.March, 1, 20), millis(2024, time.March, 2, 10))
	})

	points, err := c.FetchSeries(context.Background(), "BTC",
		domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 2))
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.InDelta(t, 62000.0, points[0].Close, 1e-9)
	assert.InDelta(t, 63000.0, points[1].Close, 1e-9)
}

func TestFetchSeries_UnknownCoin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an unknown coin")
	})

	_, err := c.FetchSeries(context.Background(), "AAPL",
		domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 2))
	assert.True(t, errors.Is(err, domain.ErrNoDataForSymbol))
}

func TestFetchSeries_EmptyPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"prices":[],"market_caps":[],"total_volumes":[]}`)
	})

	_, err := c.FetchSeries(context.Background(), "BTC",
		domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 2))
	assert.True(t, errors.Is(err, domain.ErrNoDataForSymbol))
}

func TestFetchSeries_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	})

	_, err := c.FetchSeries(context.Background(), "BTC",
		domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 2))
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}
