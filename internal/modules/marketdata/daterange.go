package marketdata

import (
	"fmt"
	"time"

	"github.com/aristath/meridian/internal/domain"
)

// ParseRange converts a range shorthand (1M, 3M, 6M, YTD, 1Y, 5Y, 10Y) to a
// [start, end] pair ending at now's calendar day.
func ParseRange(rangeStr string, now time.Time) (domain.Date, domain.Date, error) {
	end := domain.DateOf(now)

	var start time.Time
	switch rangeStr {
	case "1M":
		start = now.AddDate(0, -1, 0)
	case "3M":
		start = now.AddDate(0, -3, 0)
	case "6M":
		start = now.AddDate(0, -6, 0)
	case "YTD":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case "1Y":
		start = now.AddDate(-1, 0, 0)
	case "5Y":
		start = now.AddDate(-5, 0, 0)
	case "10Y":
		start = now.AddDate(-10, 0, 0)
	default:
		return domain.Date{}, domain.Date{}, fmt.Errorf("invalid range: %s (must be 1M, 3M, 6M, YTD, 1Y, 5Y or 10Y)", rangeStr)
	}

	return domain.DateOf(start), end, nil
}
