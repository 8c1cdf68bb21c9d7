package tonal

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// PitchContour holds frame-by-frame pitch estimates in Hz. Unvoiced
// frames carry pitch 0 and confidence 0.
type PitchContour struct {
	Pitches     []float64 `json:"pitches"`
	Confidences []float64 `json:"confidences"`
}

// YinDetector implements the YIN pitch tracking algorithm: squared
// difference function, cumulative mean normalization, threshold-based
// period picking and parabolic refinement.
type YinDetector struct {
	MinFreq float64
	MaxFreq float64
}

// NewYinDetector creates a YIN detector tuned to the speech range
func NewYinDetector() *YinDetector {
	return &YinDetector{MinFreq: 80.0, MaxFreq: 400.0}
}

const (
	yinWindowSec = 0.05
	yinThreshold = 0.3

	// Absolute-minimum fallback must still be at least this periodic
	yinFallbackCeiling = 0.5
)

// Contour tracks pitch over 50 ms Hann windows with 75% overlap
func (yd *YinDetector) Contour(samples []float64, sampleRate int) PitchContour {
	contour := PitchContour{Pitches: []float64{}, Confidences: []float64{}}

	windowSize := int(yinWindowSec * float64(sampleRate))
	if windowSize < 4 {
		return contour
	}
	hopSize := windowSize / 4

	for start := 0; start+windowSize <= len(samples); start += hopSize {
		window := make([]float64, windowSize)
		copy(window, samples[start:start+windowSize])
		audio.HannWindow(window)

		diff := yinDifference(window)
		cmndf := yinCMNDF(diff)
		tau := yd.findPeriod(cmndf, float64(sampleRate))

		if tau > 0 {
			refined := parabolicInterpolation(diff, tau)
			contour.Pitches = append(contour.Pitches, float64(sampleRate)/refined)
			contour.Confidences = append(contour.Confidences, 1.0-cmndf[tau])
		} else {
			contour.Pitches = append(contour.Pitches, 0.0)
			contour.Confidences = append(contour.Confidences, 0.0)
		}
	}

	return contour
}

func yinDifference(window []float64) []float64 {
	halfSize := len(window) / 2
	diff := make([]float64, halfSize)

	for tau := 1; tau < halfSize; tau++ {
		for j := 0; j < halfSize; j++ {
			delta := window[j] - window[j+tau]
			diff[tau] += delta * delta
		}
	}
	return diff
}

func yinCMNDF(diff []float64) []float64 {
	cmndf := make([]float64, len(diff))
	if len(cmndf) == 0 {
		return cmndf
	}
	cmndf[0] = 1.0

	runningSum := 0.0
	for tau := 1; tau < len(diff); tau++ {
		runningSum += diff[tau]
		if runningSum > 0 {
			cmndf[tau] = diff[tau] * float64(tau) / runningSum
		} else {
			cmndf[tau] = 1.0
		}
	}
	return cmndf
}

// findPeriod returns the first local minimum of the CMNDF below the YIN
// threshold within the valid period range, falling back to the absolute
// minimum when it is convincing enough. 0 means unvoiced.
func (yd *YinDetector) findPeriod(cmndf []float64, sampleRate float64) int {
	minPeriod := int(sampleRate / yd.MaxFreq)
	maxPeriod := int(sampleRate / yd.MinFreq)
	if maxPeriod > len(cmndf) {
		maxPeriod = len(cmndf)
	}
	if minPeriod < 1 || minPeriod >= maxPeriod {
		return 0
	}

	for tau := minPeriod; tau < maxPeriod; tau++ {
		if cmndf[tau] < yinThreshold && tau > 0 && tau < len(cmndf)-1 {
			if cmndf[tau] < cmndf[tau-1] && cmndf[tau] < cmndf[tau+1] {
				return tau
			}
		}
	}

	minTau := minPeriod
	minValue := cmndf[minPeriod]
	for tau := minPeriod + 1; tau < maxPeriod; tau++ {
		if cmndf[tau] < minValue {
			minValue = cmndf[tau]
			minTau = tau
		}
	}
	if minValue < yinFallbackCeiling {
		return minTau
	}
	return 0
}

func parabolicInterpolation(diff []float64, tau int) float64 {
	if tau <= 0 || tau >= len(diff)-1 {
		return float64(tau)
	}

	s0 := diff[tau-1]
	s1 := diff[tau]
	s2 := diff[tau+1]

	a := s2 - s1
	b := s0 - s1
	if a+b == 0 {
		return float64(tau)
	}
	return float64(tau) + 0.5*(b-a)/(a+b)
}

// DetectPitchAutocorrelation estimates the fundamental of a windowed
// frame by peak-picking the autocorrelation between 80 and 1000 Hz.
// Returns 0 when no periodic peak exists.
func DetectPitchAutocorrelation(window []float64, sampleRate float64) float64 {
	const minFreq, maxFreq = 80.0, 1000.0

	minLag := int(sampleRate / maxFreq)
	maxLag := int(sampleRate / minFreq)
	if minLag < 1 || maxLag >= len(window) {
		return 0.0
	}

	bestLag := 0
	bestValue := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < len(window); i++ {
			sum += window[i] * window[i+lag]
		}
		if sum > bestValue {
			bestValue = sum
			bestLag = lag
		}
	}

	if bestValue <= 0 || bestLag == 0 {
		return 0.0
	}
	return sampleRate / float64(bestLag)
}

// PitchConfidence measures periodicity strength at the detected pitch
// as a normalized correlation in [0, 1].
func PitchConfidence(window []float64, pitch, sampleRate float64) float64 {
	if pitch <= 0 {
		return 0.0
	}

	period := int(sampleRate / pitch)
	if period >= len(window)/2 || period < 1 {
		return 0.0
	}

	var correlation, energy1, energy2 float64
	for i := 0; i+period < len(window); i++ {
		correlation += window[i] * window[i+period]
		energy1 += window[i] * window[i]
		energy2 += window[i+period] * window[i+period]
	}

	if energy1 <= 0 || energy2 <= 0 {
		return 0.0
	}
	return correlation / math.Sqrt(energy1*energy2)
}
