package comparison

import (
	"sort"

	"github.com/aristath/meridian/internal/domain"
)

// BuildPortfolioSeries computes the portfolio's mark-to-market value for
// every date any holding has data, restricted to [start, end]. Each
// holding's close is found by nearest-date matching within tolDays; when no
// match exists the holding's last known value is carried forward unchanged,
// so a holding with missing data degrades to "no price movement" instead of
// dropping the date. BenchmarkValue is left 0 for the normalization stage.
func BuildPortfolioSeries(holdings []domain.Holding, series map[string][]domain.PricePoint, start, end domain.Date, tolDays int) []domain.PerformanceDataPoint {
	dates := dateUnion(series, start, end)
	if len(dates) == 0 {
		return nil
	}

	lastValue := make(map[string]float64, len(holdings))

	points := make([]domain.PerformanceDataPoint, 0, len(dates))
	for _, date := range dates {
		total := 0.0
		for _, h := range holdings {
			if p, ok := nearestPoint(series[h.Symbol], date, tolDays); ok {
				lastValue[h.Symbol] = h.Quantity * p.Close
			}
			total += lastValue[h.Symbol]
		}
		points = append(points, domain.PerformanceDataPoint{
			Date:           date,
			PortfolioValue: total,
		})
	}

	applyPortfolioReturns(points)
	return points
}

// dateUnion collects every date present across all series within [start,
// end], sorted ascending.
func dateUnion(series map[string][]domain.PricePoint, start, end domain.Date) []domain.Date {
	seen := make(map[domain.Date]struct{})
	for _, points := range series {
		for _, p := range points {
			if p.Date.Before(start) || p.Date.After(end) {
				continue
			}
			seen[p.Date] = struct{}{}
		}
	}

	dates := make([]domain.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// applyPortfolioReturns derives period and cumulative portfolio returns.
// Index 0 has period return 0 and cumulative return 0 by definition; all
// cumulative returns are relative to the first point.
func applyPortfolioReturns(points []domain.PerformanceDataPoint) {
	if len(points) == 0 {
		return
	}
	first := points[0].PortfolioValue
	for i := range points {
		if i == 0 {
			continue
		}
		prev := points[i-1].PortfolioValue
		if prev != 0 {
			points[i].PortfolioPeriodReturn = (points[i].PortfolioValue - prev) / prev
		}
		if first != 0 {
			points[i].CumulativePortfolioReturn = (points[i].PortfolioValue - first) / first
		}
	}
}

// applyBenchmarkReturns derives period and cumulative benchmark returns
// under the same conventions as applyPortfolioReturns.
func applyBenchmarkReturns(points []domain.PerformanceDataPoint) {
	if len(points) == 0 {
		return
	}
	first := points[0].BenchmarkValue
	for i := range points {
		if i == 0 {
			continue
		}
		prev := points[i-1].BenchmarkValue
		if prev != 0 {
			points[i].BenchmarkPeriodReturn = (points[i].BenchmarkValue - prev) / prev
		}
		if first != 0 {
			points[i].CumulativeBenchmarkReturn = (points[i].BenchmarkValue - first) / first
		}
	}
}
