// Package formulas provides shared statistical helpers used across the
// analysis pipeline.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Sum returns the total of a slice of float64 values
func Sum(data []float64) float64 {
	total := 0.0
	for _, v := range data {
		total += v
	}
	return total
}

// SharpeLikeRatio divides an expected value by its volatility. Returns NaN
// when volatility is zero: the ratio is undefined there, and callers carry
// the sentinel through to output tables rather than failing.
func SharpeLikeRatio(expectedValue, volatility float64) float64 {
	if volatility == 0 {
		return math.NaN()
	}
	return expectedValue / volatility
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// RoundToGranularity rounds a value to the nearest multiple of the given
// granularity (e.g. granularity 0.5 maps 6.3 → 6.5). The result is computed
// from the integer multiple so equal bins always produce bit-identical keys.
func RoundToGranularity(value, granularity float64) float64 {
	if granularity <= 0 {
		return value
	}
	return math.Round(value/granularity) * granularity
}
