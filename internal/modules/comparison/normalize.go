package comparison

import (
	"fmt"

	"github.com/aristath/meridian/internal/domain"
)

// Normalize rescales the benchmark so it starts at the portfolio's own
// starting value. ImpliedBenchmarkUnits is fixed for the whole comparison:
// startingNotional / benchmark[0].Close; every benchmark value is that unit
// count times the matched close. A date with no benchmark close within
// tolDays carries the previous benchmark value forward with an explicit 0
// period return and a soft warning.
func Normalize(portfolio []domain.PerformanceDataPoint, benchmark []domain.PricePoint, tolDays int) (domain.NormalizedComparison, []domain.Warning) {
	var warnings []domain.Warning

	if len(portfolio) == 0 || len(benchmark) == 0 || benchmark[0].Close == 0 {
		return domain.NormalizedComparison{NormalizedPortfolioSeries: portfolio}, warnings
	}

	startingNotional := portfolio[0].PortfolioValue
	impliedUnits := startingNotional / benchmark[0].Close

	benchSeries := make([]domain.PerformanceDataPoint, 0, len(portfolio))
	lastValue := startingNotional
	gapReported := false

	for _, p := range portfolio {
		value := lastValue
		if bp, ok := nearestPoint(benchmark, p.Date, tolDays); ok {
			value = impliedUnits * bp.Close
		} else if !gapReported {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnBenchmarkGapFilled,
				Message: fmt.Sprintf("benchmark has no data near %s; previous value carried forward", p.Date),
			})
			gapReported = true
		}
		lastValue = value

		benchSeries = append(benchSeries, domain.PerformanceDataPoint{
			Date:           p.Date,
			BenchmarkValue: value,
		})
	}

	applyBenchmarkReturns(benchSeries)

	return domain.NormalizedComparison{
		NormalizedPortfolioSeries: portfolio,
		NormalizedBenchmarkSeries: benchSeries,
		StartingNotionalValue:     startingNotional,
		ImpliedBenchmarkUnits:     impliedUnits,
	}, warnings
}

// BuildAllocations splits a hypothetical notional across holdings by their
// current weights (holding value / total portfolio value at evaluation
// time, i.e. the last observed closes). ImpliedQuantity is the position
// size that invested amount would have bought at the holding's first
// available close, so the allocation can be replayed from the start date.
func BuildAllocations(holdings []domain.Holding, series map[string][]domain.PricePoint, notional float64) []domain.HoldingAllocation {
	currentValue := make(map[string]float64, len(holdings))
	total := 0.0
	for _, h := range holdings {
		points := series[h.Symbol]
		if len(points) == 0 {
			continue
		}
		v := h.Quantity * points[len(points)-1].Close
		currentValue[h.Symbol] = v
		total += v
	}
	if total == 0 {
		return nil
	}

	allocations := make([]domain.HoldingAllocation, 0, len(holdings))
	for _, h := range holdings {
		v, ok := currentValue[h.Symbol]
		if !ok {
			continue
		}
		fraction := v / total
		invested := notional * fraction

		startClose := series[h.Symbol][0].Close
		impliedQty := 0.0
		if startClose != 0 {
			impliedQty = invested / startClose
		}

		allocations = append(allocations, domain.HoldingAllocation{
			Symbol:             h.Symbol,
			AllocationFraction: fraction,
			InvestedAmount:     invested,
			ImpliedQuantity:    impliedQty,
		})
	}
	return allocations
}

// ImpliedHoldings converts allocations back to holdings with the implied
// quantities, ready for a fixed-notional valuation replay.
func ImpliedHoldings(allocations []domain.HoldingAllocation) []domain.Holding {
	holdings := make([]domain.Holding, 0, len(allocations))
	for _, a := range allocations {
		holdings = append(holdings, domain.Holding{
			Symbol:   a.Symbol,
			Quantity: a.ImpliedQuantity,
		})
	}
	return holdings
}
