package formulas

// CalculateMaxDrawdown calculates the maximum drawdown of a value series.
//
// Formula:
//
//	Drawdown[i] = (PeakSoFar - V[i]) / PeakSoFar
//	Max Drawdown = maximum over all i
//
// Returned as a positive fraction (0.25 = 25% loss from peak); 0 for series
// shorter than 2 points.
func CalculateMaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
