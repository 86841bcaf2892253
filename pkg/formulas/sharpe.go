package formulas

import "math"

// CalculateSharpeRatio calculates the Sharpe ratio from periodic returns.
//
// Formula:
//
//	Sharpe = mean(R - periodicRiskFree) / annualizedVolatility(R)
//
// Args:
//
//	returns: Array of periodic returns (daily)
//	riskFreeRate: Risk-free rate (annual, as decimal, e.g., 0.02 for 2%)
//	periodsPerYear: Number of periods per year (252 for daily)
//
// Returns 0 on fewer than 2 returns or zero volatility.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0
	}

	volatility := StdDev(returns) * math.Sqrt(float64(periodsPerYear))
	if volatility == 0 {
		return 0
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - periodicRiskFree
	}

	return Mean(excess) / volatility
}
