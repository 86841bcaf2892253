package formulas

import "math"

// CalculateBeta calculates market sensitivity of a portfolio against a
// benchmark from matched periodic return series.
//
// Formula:
//
//	Beta = covariance(portfolioReturns, benchmarkReturns) / variance(benchmarkReturns)
//
// Defaults to 1 (moves with the market) when the benchmark variance is 0 or
// the series are too short or mismatched.
func CalculateBeta(portfolioReturns, benchmarkReturns []float64) float64 {
	if len(portfolioReturns) < 2 || len(portfolioReturns) != len(benchmarkReturns) {
		return 1
	}

	benchVariance := Variance(benchmarkReturns)
	if benchVariance == 0 {
		return 1
	}

	return Covariance(portfolioReturns, benchmarkReturns) / benchVariance
}

// CalculateAlpha calculates CAPM excess return.
//
// Formula:
//
//	Alpha = annualizedPortfolioReturn - (riskFree + beta × (annualizedBenchmarkReturn - riskFree))
func CalculateAlpha(annualizedPortfolioReturn, annualizedBenchmarkReturn, beta, riskFreeRate float64) float64 {
	return annualizedPortfolioReturn - (riskFreeRate + beta*(annualizedBenchmarkReturn-riskFreeRate))
}

// ActiveReturns computes per-period portfolio returns in excess of the
// benchmark. Series must be matched; returns an empty slice otherwise.
func ActiveReturns(portfolioReturns, benchmarkReturns []float64) []float64 {
	if len(portfolioReturns) != len(benchmarkReturns) {
		return []float64{}
	}
	active := make([]float64, len(portfolioReturns))
	for i := range portfolioReturns {
		active[i] = portfolioReturns[i] - benchmarkReturns[i]
	}
	return active
}

// CalculateInformationRatio calculates mean active return per unit of active
// risk. Returns 0 on fewer than 2 points or zero active deviation.
func CalculateInformationRatio(activeReturns []float64) float64 {
	if len(activeReturns) < 2 {
		return 0
	}
	deviation := StdDev(activeReturns)
	if deviation == 0 {
		return 0
	}
	return Mean(activeReturns) / deviation
}

// CalculateTrackingError calculates annualized volatility of active returns
// Formula: stddev(activeReturns) × sqrt(252)
func CalculateTrackingError(activeReturns []float64) float64 {
	return StdDev(activeReturns) * math.Sqrt(TradingDaysPerYear)
}
