package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT computes forward FFTs for real-valued signals.
// Wraps go-dsp so callers never deal with complex output directly
// unless they need phase.
type FFT struct{}

// NewFFT creates a new FFT processor
func NewFFT() *FFT {
	return &FFT{}
}

// Compute performs a forward FFT on a real signal
func (f *FFT) Compute(signal []float64) []complex128 {
	if len(signal) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(signal)
}

// Magnitude returns the single-sided magnitude spectrum of a real signal.
// The result has len(signal)/2+1 bins when the input length is even.
func (f *FFT) Magnitude(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	spectrum := fft.FFTReal(signal)
	numBins := len(signal)/2 + 1
	if numBins > len(spectrum) {
		numBins = len(spectrum)
	}

	magnitudes := make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		magnitudes[i] = cmplx.Abs(spectrum[i])
	}
	return magnitudes
}

// BinFrequency maps a magnitude bin index to its center frequency in Hz.
// numBins is the length of the magnitude slice the index came from.
func BinFrequency(bin, numBins, sampleRate int) float64 {
	if numBins < 2 {
		return 0.0
	}
	return float64(bin) * float64(sampleRate) / (2.0 * float64(numBins-1))
}

// HannWindow applies a Hann window in place and returns the slice
func HannWindow(frame []float64) []float64 {
	n := len(frame)
	if n < 2 {
		return frame
	}
	for i := range frame {
		w := 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
		frame[i] *= w
	}
	return frame
}
