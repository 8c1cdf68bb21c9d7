package audio

import "math"

// Buffer is a mono PCM signal with its sample rate
type Buffer struct {
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
}

// NewBuffer wraps samples without copying
func NewBuffer(samples []float64, sampleRate int) Buffer {
	return Buffer{Samples: samples, SampleRate: sampleRate}
}

// Duration returns the buffer length in seconds
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0.0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// DC blocking coefficient for the one-pole high-pass
const highPassAlpha = 0.95

// Preprocess normalizes the signal to unit peak and removes the DC
// component with a one-pole high-pass. The input slice is not modified.
func Preprocess(raw []float64, sampleRate int) Buffer {
	if len(raw) == 0 {
		return Buffer{Samples: []float64{}, SampleRate: sampleRate}
	}

	normalized := Normalize(raw)

	filtered := make([]float64, len(normalized))
	filtered[0] = normalized[0]
	for i := 1; i < len(normalized); i++ {
		filtered[i] = highPassAlpha * (filtered[i-1] + normalized[i] - normalized[i-1])
	}

	return Buffer{Samples: filtered, SampleRate: sampleRate}
}

// Normalize scales a signal so its absolute peak is 1. A silent signal
// comes back as zeros.
func Normalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	if len(signal) == 0 {
		return normalized
	}

	var peak float64
	for _, s := range signal {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	if peak == 0 {
		return normalized
	}

	for i, s := range signal {
		normalized[i] = s / peak
	}
	return normalized
}
