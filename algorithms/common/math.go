package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Shared statistics for the analyzers, built on gonum.
//
// Standard deviations here are population deviations (divide by N, not
// N-1): every threshold in the scoring heuristics was tuned against that
// definition and the two differ enough on short frame sequences to move
// results.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	mean := stat.Mean(data, nil)
	variance := 0.0
	for _, v := range data {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(data))
	return math.Sqrt(variance)
}

// CoefficientOfVariation returns StdDev/Mean, 0 when the mean is zero
func CoefficientOfVariation(data []float64) float64 {
	mean := Mean(data)
	if mean == 0 {
		return 0.0
	}
	return StdDev(data) / mean
}

// Percentile calculates the p-th percentile (p between 0 and 1) by
// nearest-rank on a sorted copy.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Median returns the middle value of a sorted copy
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// LinRegression performs simple linear regression and returns slope
// and intercept of y = intercept + slope*x.
func LinRegression(x, y []float64) (slope, intercept float64) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return beta, alpha
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampUnit constrains a value to [0, 1]
func ClampUnit(value float64) float64 {
	return Clamp(value, 0.0, 1.0)
}
