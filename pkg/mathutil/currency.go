// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-affordability/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether a value is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsInf(val, 0) && !math.IsNaN(val)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance checks if two values differ by at most the given
// fraction of the expected value.
func WithinRelativeTolerance(actual, expected, fraction float64) bool {
	if expected == 0 {
		return math.Abs(actual) <= fraction
	}
	return math.Abs(actual-expected) <= math.Abs(expected)*fraction
}

// Linspace returns n evenly spaced values over [start, stop], both ends
// included. A single sample yields just start.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	values := make([]float64, n)
	if n == 1 {
		values[0] = start
		return values
	}
	step := (stop - start) / float64(n-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	// Pin the last sample so accumulated error never overshoots stop.
	values[n-1] = stop
	return values
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
