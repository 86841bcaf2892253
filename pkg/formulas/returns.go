package formulas

import "math"

// DaysPerYear converts elapsed calendar days to years for annualization.
const DaysPerYear = 365.25

// CalculateTotalReturn calculates the total return of a value series
// Formula: (V[last] - V[0]) / V[0]
// Returns 0 for series shorter than 2 points or a zero starting value.
func CalculateTotalReturn(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1] - values[0]) / values[0]
}

// CalculateAnnualizedReturn converts a total return over a period into a
// compound annual rate
// Formula: (1 + totalReturn)^(1/years) - 1
// Returns the total return unchanged when the period is under one day.
func CalculateAnnualizedReturn(totalReturn float64, elapsedDays int) float64 {
	if elapsedDays <= 0 {
		return totalReturn
	}
	years := float64(elapsedDays) / DaysPerYear
	if years <= 0 {
		return totalReturn
	}
	// Growth factor below -100% is not meaningful to compound.
	if 1+totalReturn <= 0 {
		return -1
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}
