// Package comparison implements the performance comparison pipeline:
// valuation, normalization against a benchmark, and summary metrics.
package comparison

import (
	"sort"

	"github.com/aristath/meridian/internal/domain"
)

// nearestPoint finds the point closest in time to target within a tolerance
// of tolDays calendar days. Points must be sorted by ascending date. When
// two candidates are equidistant the earlier date wins: preferring
// already-observed data over lookahead keeps the series causal.
func nearestPoint(points []domain.PricePoint, target domain.Date, tolDays int) (domain.PricePoint, bool) {
	if len(points) == 0 {
		return domain.PricePoint{}, false
	}

	idx := sort.Search(len(points), func(i int) bool {
		return !points[i].Date.Before(target)
	})

	// Candidates: the first point at/after target and the last one before it.
	bestIdx := -1
	bestDist := tolDays + 1

	if idx > 0 {
		if d := points[idx-1].Date.DaysUntil(target); d < bestDist {
			bestIdx = idx - 1
			bestDist = d
		}
	}
	if idx < len(points) {
		// Strict improvement only: an equidistant later date loses.
		if d := target.DaysUntil(points[idx].Date); d < bestDist {
			bestIdx = idx
			bestDist = d
		}
	}

	if bestIdx < 0 || bestDist > tolDays {
		return domain.PricePoint{}, false
	}
	return points[bestIdx], true
}
