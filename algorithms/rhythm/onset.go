// Package rhythm covers onset detection, tempo estimation, beat tracking,
// meter analysis and the danceability score.
package rhythm

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
)

// Onsets holds detected onset positions (seconds) and their spectral
// flux strengths.
type Onsets struct {
	Times     []float64 `json:"times"`
	Strengths []float64 `json:"strengths"`
}

// OnsetDetector finds note/event onsets via spectral flux with an
// adaptive threshold.
type OnsetDetector struct {
	fft *audio.FFT
}

// NewOnsetDetector creates a new onset detector
func NewOnsetDetector() *OnsetDetector {
	return &OnsetDetector{fft: audio.NewFFT()}
}

const (
	onsetFrameSize = 1024
	onsetHopSize   = 512

	// Adaptive threshold: local mean + thresholdWeight * local stddev
	// over +-thresholdWindow frames.
	thresholdWindow = 5
	thresholdWeight = 0.5
)

// Detect returns onsets for the signal. An onset is a strict local
// maximum of the spectral flux that exceeds its adaptive threshold.
func (od *OnsetDetector) Detect(samples []float64, sampleRate int) Onsets {
	onsets := Onsets{Times: []float64{}, Strengths: []float64{}}

	flux := od.SpectralFlux(samples)
	if len(flux) < 3 {
		return onsets
	}
	thresholds := adaptiveThresholds(flux)

	timePerFrame := float64(onsetHopSize) / float64(sampleRate)
	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > thresholds[i] && flux[i] > flux[i-1] && flux[i] > flux[i+1] {
			onsets.Times = append(onsets.Times, float64(i)*timePerFrame)
			onsets.Strengths = append(onsets.Strengths, flux[i])
		}
	}

	return onsets
}

// SpectralFlux computes the half-wave rectified frame-to-frame magnitude
// increase over 1024-sample frames with a 512-sample hop.
func (od *OnsetDetector) SpectralFlux(samples []float64) []float64 {
	var flux []float64
	var prevMagnitude []float64

	for start := 0; start+onsetFrameSize <= len(samples); start += onsetHopSize {
		magnitude := od.fft.Magnitude(samples[start : start+onsetFrameSize])

		if prevMagnitude != nil {
			value := 0.0
			n := min(len(magnitude), len(prevMagnitude))
			for j := 0; j < n; j++ {
				if diff := magnitude[j] - prevMagnitude[j]; diff > 0 {
					value += diff
				}
			}
			flux = append(flux, value)
		}

		prevMagnitude = magnitude
	}

	return flux
}

func adaptiveThresholds(flux []float64) []float64 {
	thresholds := make([]float64, len(flux))

	for i := range flux {
		start := max(0, i-thresholdWindow)
		end := min(len(flux), i+thresholdWindow+1)
		window := flux[start:end]

		mean := common.Mean(window)
		variance := 0.0
		for _, v := range window {
			d := v - mean
			variance += d * d
		}
		variance /= float64(len(window))

		thresholds[i] = mean + thresholdWeight*math.Sqrt(variance)
	}

	return thresholds
}

// Intervals returns the inter-onset intervals in seconds
func (o Onsets) Intervals() []float64 {
	var intervals []float64
	for i := 1; i < len(o.Times); i++ {
		intervals = append(intervals, o.Times[i]-o.Times[i-1])
	}
	return intervals
}

// Density returns onsets per second over the span of detected onsets
func (o Onsets) Density() float64 {
	if len(o.Times) < 2 {
		return 0.0
	}
	duration := o.Times[len(o.Times)-1] - o.Times[0]
	if duration <= 0 {
		return 0.0
	}
	return float64(len(o.Times)) / duration
}
