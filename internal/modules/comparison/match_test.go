package comparison

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/meridian/internal/domain"
)

func pricePoint(date domain.Date, close float64) domain.PricePoint {
	return domain.PricePoint{
		Date:  date,
		Open:  close,
		High:  close,
		Low:   close,
		Close: close,
	}
}

func TestNearestPoint(t *testing.T) {
	points := []domain.PricePoint{
		pricePoint(domain.NewDate(2024, time.January, 2), 10),
		pricePoint(domain.NewDate(2024, time.January, 5), 11),
		pricePoint(domain.NewDate(2024, time.January, 12), 12),
	}

	tests := []struct {
		name      string
		target    domain.Date
		tolDays   int
		wantClose float64
		wantOK    bool
	}{
		{
			name:      "exact match",
			target:    domain.NewDate(2024, time.January, 5),
			tolDays:   7,
			wantClose: 11,
			wantOK:    true,
		},
		{
			name:      "nearest before",
			target:    domain.NewDate(2024, time.January, 6),
			tolDays:   7,
			wantClose: 11,
			wantOK:    true,
		},
		{
			name:      "nearest after",
			target:    domain.NewDate(2024, time.January, 10),
			tolDays:   7,
			wantClose: 12,
			wantOK:    true,
		},
		{
			name:    "outside tolerance",
			target:  domain.NewDate(2024, time.February, 15),
			tolDays: 7,
			wantOK:  false,
		},
		{
			// Jan 4 sits 2 days after Jan 2 and 1 day before Jan 5.
			name:      "closer later date wins when strictly nearer",
			target:    domain.NewDate(2024, time.January, 4),
			tolDays:   7,
			wantClose: 11,
			wantOK:    true,
		},
		{
			name:    "zero tolerance requires exact date",
			target:  domain.NewDate(2024, time.January, 6),
			tolDays: 0,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := nearestPoint(points, tt.target, tt.tolDays)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantClose, p.Close)
			}
		})
	}
}

func TestNearestPoint_EquidistantPrefersEarlier(t *testing.T) {
	points := []domain.PricePoint{
		pricePoint(domain.NewDate(2024, time.January, 2), 10),
		pricePoint(domain.NewDate(2024, time.January, 6), 11),
	}

	// Jan 4 is exactly 2 days from both candidates.
	p, ok := nearestPoint(points, domain.NewDate(2024, time.January, 4), 7)
	require.True(t, ok)
	assert.Equal(t, 10.0, p.Close, "equidistant tie must resolve to the earlier date")
}

func TestNearestPoint_Empty(t *testing.T) {
	_, ok := nearestPoint(nil, domain.NewDate(2024, time.January, 2), 7)
	assert.False(t, ok)
}
