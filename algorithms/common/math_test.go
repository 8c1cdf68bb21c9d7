package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, -1.5, Mean([]float64{-1, -2}))
}

func TestStdDevIsPopulation(t *testing.T) {
	// Population std dev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(data), 1e-12)

	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.Equal(t, 0.0, StdDev(nil))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))

	cv := CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.0/5.0, cv, 1e-12)
}

func TestPercentileNearestRank(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}

	assert.Equal(t, 10.0, Percentile(data, 0.0))
	assert.Equal(t, 30.0, Percentile(data, 0.5))
	assert.Equal(t, 50.0, Percentile(data, 1.0))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
	assert.Equal(t, 0.0, Percentile(data, 1.5))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 0.0, Median(nil))
}

func TestLinRegression(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7} // y = 1 + 2x

	slope, intercept := LinRegression(x, y)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)

	slope, intercept = LinRegression(x, []float64{1})
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 0.0, intercept)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-2, 0, 1))
	assert.Equal(t, 1.0, Clamp(7, 0, 1))
	assert.Equal(t, 1.0, ClampUnit(3.5))
	assert.Equal(t, 0.0, ClampUnit(-3.5))
}
