package crypto

import (
	"sort"
	"time"

	"github.com/aristath/meridian/internal/domain"
)

// Downsample reduces hourly samples to one point per UTC calendar day. For
// each day the latest-timestamped price sample becomes that day's close;
// open/high/low are approximated as equal to close since the source provides
// no true OHLC. Market cap and volume attach only when their sample
// timestamps coincide exactly with the chosen price sample's timestamp.
func Downsample(resp marketChartResponse) []domain.PricePoint {
	type daySample struct {
		ts    int64 // millis of the chosen sample
		price float64
	}

	latest := make(map[domain.Date]daySample)
	for _, pair := range resp.Prices {
		ts := int64(pair[0])
		day := domain.DateOf(time.UnixMilli(ts))
		if cur, ok := latest[day]; !ok || ts > cur.ts {
			latest[day] = daySample{ts: ts, price: pair[1]}
		}
	}

	capsByTS := make(map[int64]float64, len(resp.MarketCaps))
	for _, pair := range resp.MarketCaps {
		capsByTS[int64(pair[0])] = pair[1]
	}
	volsByTS := make(map[int64]float64, len(resp.TotalVolumes))
	for _, pair := range resp.TotalVolumes {
		volsByTS[int64(pair[0])] = pair[1]
	}

	points := make([]domain.PricePoint, 0, len(latest))
	for day, sample := range latest {
		p := domain.PricePoint{
			Date:          day,
			Open:          sample.price,
			High:          sample.price,
			Low:           sample.price,
			Close:         sample.price,
			AdjustedClose: sample.price,
		}
		if v, ok := volsByTS[sample.ts]; ok {
			p.Volume = v
		}
		if mc, ok := capsByTS[sample.ts]; ok {
			p.MarketCap = mc
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}
