package marketdata

import (
	"github.com/aristath/meridian/internal/domain"
)

// FillCalendarGaps expands a sparse series to exactly one point per calendar
// day from max(firstAvailableDate, start) through end inclusive. Missing
// days carry the last known close forward with volume 0, modeling that a
// holding's mark-to-market value does not change on non-trading days. Days
// before the first available point are not fabricated.
func FillCalendarGaps(series []domain.PricePoint, start, end domain.Date) []domain.PricePoint {
	if len(series) == 0 || end.Before(start) {
		return nil
	}

	byDate := make(map[domain.Date]domain.PricePoint, len(series))
	first := series[0].Date
	for _, p := range series {
		byDate[p.Date] = p
		if p.Date.Before(first) {
			first = p.Date
		}
	}

	from := start
	if first.After(from) {
		from = first
	}
	if end.Before(from) {
		return nil
	}

	var (
		filled []domain.PricePoint
		last   domain.PricePoint
		known  bool
	)
	for day := from; !day.After(end); day = day.AddDays(1) {
		if p, ok := byDate[day]; ok {
			filled = append(filled, p)
			last = p
			known = true
			continue
		}
		if !known {
			// Requested start precedes the first data point; skip until
			// real data appears.
			continue
		}
		filled = append(filled, domain.PricePoint{
			Date:          day,
			Open:          last.Close,
			High:          last.Close,
			Low:           last.Close,
			Close:         last.Close,
			Volume:        0,
			AdjustedClose: last.AdjustedClose,
			Filled:        true,
		})
	}

	return filled
}

// FillAll applies FillCalendarGaps to every series in a symbol map so later
// pipeline stages share an identical date grid wherever possible. Symbols
// whose series are empty stay absent from the result.
func FillAll(series map[string][]domain.PricePoint, start, end domain.Date) map[string][]domain.PricePoint {
	filled := make(map[string][]domain.PricePoint, len(series))
	for symbol, points := range series {
		if f := FillCalendarGaps(points, start, end); len(f) > 0 {
			filled[symbol] = f
		}
	}
	return filled
}
