package audio

import "math"

// RMS returns the root mean square of a signal
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	var sum float64
	for _, s := range signal {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(signal)))
}

// WindowedRMS computes RMS over consecutive windows. hopSize controls the
// stride between window starts; windows that would run past the end of the
// signal are dropped.
func WindowedRMS(signal []float64, windowSize, hopSize int) []float64 {
	if len(signal) == 0 || windowSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	var values []float64
	for start := 0; start+windowSize <= len(signal); start += hopSize {
		values = append(values, RMS(signal[start:start+windowSize]))
	}
	return values
}

// WindowedEnergy computes summed squared energy over consecutive windows
func WindowedEnergy(signal []float64, windowSize, hopSize int) []float64 {
	if len(signal) == 0 || windowSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	var values []float64
	for start := 0; start+windowSize <= len(signal); start += hopSize {
		var energy float64
		for _, s := range signal[start : start+windowSize] {
			energy += s * s
		}
		values = append(values, energy)
	}
	return values
}
