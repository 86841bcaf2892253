package comparison

import (
	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/pkg/formulas"
)

const tradingDaysPerYear = 252

// CalculateMetrics derives the summary statistics from an aligned
// portfolio/benchmark series. Pure: same input, same output. With fewer
// than two points all ratios are neutral (Beta 1, everything else 0).
func CalculateMetrics(points []domain.PerformanceDataPoint, riskFreeRate float64) domain.Metrics {
	if len(points) < 2 {
		return domain.Metrics{Beta: 1}
	}

	portfolioValues := make([]float64, len(points))
	benchmarkValues := make([]float64, len(points))
	for i, p := range points {
		portfolioValues[i] = p.PortfolioValue
		benchmarkValues[i] = p.BenchmarkValue
	}

	portfolioReturns := formulas.CalculateReturns(portfolioValues)
	benchmarkReturns := formulas.CalculateReturns(benchmarkValues)
	activeReturns := formulas.ActiveReturns(portfolioReturns, benchmarkReturns)

	elapsedDays := points[0].Date.DaysUntil(points[len(points)-1].Date)

	totalReturn := formulas.CalculateTotalReturn(portfolioValues)
	annualizedReturn := formulas.CalculateAnnualizedReturn(totalReturn, elapsedDays)

	benchmarkTotal := formulas.CalculateTotalReturn(benchmarkValues)
	benchmarkAnnualized := formulas.CalculateAnnualizedReturn(benchmarkTotal, elapsedDays)

	beta := formulas.CalculateBeta(portfolioReturns, benchmarkReturns)

	return domain.Metrics{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualizedReturn,
		Volatility:       formulas.AnnualizedVolatility(portfolioReturns),
		SharpeRatio:      formulas.CalculateSharpeRatio(portfolioReturns, riskFreeRate, tradingDaysPerYear),
		MaxDrawdown:      formulas.CalculateMaxDrawdown(portfolioValues),
		Beta:             beta,
		Alpha:            formulas.CalculateAlpha(annualizedReturn, benchmarkAnnualized, beta, riskFreeRate),
		InformationRatio: formulas.CalculateInformationRatio(activeReturns),
		TrackingError:    formulas.CalculateTrackingError(activeReturns),
	}
}
