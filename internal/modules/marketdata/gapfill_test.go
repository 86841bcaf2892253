package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/meridian/internal/domain"
)

func pricePoint(date domain.Date, close float64) domain.PricePoint {
	return domain.PricePoint{
		Date:          date,
		Open:          close,
		High:          close,
		Low:           close,
		Close:         close,
		Volume:        1000,
		AdjustedClose: close,
	}
}

func TestFillCalendarGaps_WeekendCarryForward(t *testing.T) {
	// Friday 2024-01-05 through Thursday 2024-01-11 with the weekend missing.
	fri := domain.NewDate(2024, time.January, 5)
	series := []domain.PricePoint{
		pricePoint(fri, 101),
		pricePoint(domain.NewDate(2024, time.January, 8), 102),
		pricePoint(domain.NewDate(2024, time.January, 9), 103),
		pricePoint(domain.NewDate(2024, time.January, 10), 104),
		pricePoint(domain.NewDate(2024, time.January, 11), 105),
	}

	filled := FillCalendarGaps(series, fri, domain.NewDate(2024, time.January, 11))
	require.Len(t, filled, 7)

	// Saturday and Sunday carry Friday's close on all four OHLC legs.
	for _, i := range []int{1, 2} {
		p := filled[i]
		assert.True(t, p.Filled)
		assert.Equal(t, 101.0, p.Close)
		assert.Equal(t, p.Close, p.Open)
		assert.Equal(t, p.Close, p.High)
		assert.Equal(t, p.Close, p.Low)
		assert.Zero(t, p.Volume)
		assert.Equal(t, 101.0, p.AdjustedClose)
	}
	assert.Equal(t, "2024-01-06", filled[1].Date.String())
	assert.Equal(t, "2024-01-07", filled[2].Date.String())
	assert.Equal(t, 102.0, filled[3].Close)
}

func TestFillCalendarGaps_Completeness(t *testing.T) {
	// Sparse series: one point per week over a month.
	series := []domain.PricePoint{
		pricePoint(domain.NewDate(2024, time.February, 5), 10),
		pricePoint(domain.NewDate(2024, time.February, 12), 11),
		pricePoint(domain.NewDate(2024, time.February, 19), 12),
		pricePoint(domain.NewDate(2024, time.February, 26), 13),
	}
	start := domain.NewDate(2024, time.February, 1)
	end := domain.NewDate(2024, time.February, 29)

	filled := FillCalendarGaps(series, start, end)

	// One point per calendar day from the first available date (Feb 5, not
	// the requested Feb 1) through end, inclusive, strictly increasing.
	require.Len(t, filled, 25)
	assert.Equal(t, "2024-02-05", filled[0].Date.String())
	assert.Equal(t, "2024-02-29", filled[len(filled)-1].Date.String())
	for i := 1; i < len(filled); i++ {
		assert.Equal(t, 1, filled[i-1].Date.DaysUntil(filled[i].Date), "dates must be consecutive")
	}
}

func TestFillCalendarGaps_NoPreHistoryFabrication(t *testing.T) {
	series := []domain.PricePoint{
		pricePoint(domain.NewDate(2024, time.June, 10), 50),
	}

	filled := FillCalendarGaps(series, domain.NewDate(2024, time.June, 1), domain.NewDate(2024, time.June, 12))
	require.Len(t, filled, 3)
	assert.Equal(t, "2024-06-10", filled[0].Date.String())
	assert.False(t, filled[0].Filled)
	assert.True(t, filled[1].Filled)
	assert.True(t, filled[2].Filled)
}

func TestFillCalendarGaps_Degenerate(t *testing.T) {
	start := domain.NewDate(2024, time.June, 1)
	end := domain.NewDate(2024, time.June, 10)

	assert.Nil(t, FillCalendarGaps(nil, start, end))
	assert.Nil(t, FillCalendarGaps([]domain.PricePoint{}, start, end))
	// Inverted range.
	assert.Nil(t, FillCalendarGaps([]domain.PricePoint{pricePoint(start, 1)}, end, start))
	// Data entirely after the range.
	late := []domain.PricePoint{pricePoint(domain.NewDate(2024, time.July, 1), 1)}
	assert.Nil(t, FillCalendarGaps(late, start, end))
}

func TestFillAll(t *testing.T) {
	start := domain.NewDate(2024, time.January, 5)
	end := domain.NewDate(2024, time.January, 8)

	series := map[string][]domain.PricePoint{
		"AAPL":  {pricePoint(start, 100), pricePoint(end, 101)},
		"EMPTY": {},
	}

	filled := FillAll(series, start, end)
	require.Contains(t, filled, "AAPL")
	assert.NotContains(t, filled, "EMPTY")
	assert.Len(t, filled["AAPL"], 4)
}
