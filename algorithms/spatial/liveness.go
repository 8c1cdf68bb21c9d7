package spatial

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
)

// LivenessDetector scores how much a recording sounds like a live
// performance, from reverberation, background noise, spatial breadth
// and crowd noise.
type LivenessDetector struct {
	rt60 *RT60Estimator
}

// NewLivenessDetector creates a new liveness detector
func NewLivenessDetector() *LivenessDetector {
	return &LivenessDetector{rt60: NewRT60Estimator()}
}

// Compute returns liveness in [0, 1]
func (ld *LivenessDetector) Compute(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	reverb := ld.ReverbScore(samples, sampleRate)
	noise := ld.BackgroundNoise(samples, sampleRate)
	spatial := ld.SpatialCharacteristics(samples, features)
	crowd := ld.CrowdNoise(features)

	return common.ClampUnit((reverb+spatial)*0.4 + noise*0.4 + crowd*0.2)
}

// ReverbScore maps the measured RT60 to venue archetypes: studio, room,
// club, hall.
func (ld *LivenessDetector) ReverbScore(samples []float64, sampleRate int) float64 {
	rt60 := ld.rt60.Estimate(samples, sampleRate)

	switch {
	case rt60 > 0.5:
		return 0.8 // concert hall
	case rt60 > 0.2:
		return 0.6 // club
	case rt60 > 0.1:
		return 0.3 // room
	default:
		return 0.1 // dry studio
	}
}

// BackgroundNoise measures the noise floor in quiet 100 ms sections
func (ld *LivenessDetector) BackgroundNoise(samples []float64, sampleRate int) float64 {
	windowSize := int(0.1 * float64(sampleRate))
	if windowSize <= 0 {
		return 0.0
	}

	var noiseEstimates []float64
	for _, rms := range audio.WindowedRMS(samples, windowSize, windowSize) {
		if rms < 0.1 {
			noiseEstimates = append(noiseEstimates, rms)
		}
	}
	if len(noiseEstimates) == 0 {
		return 0.0
	}

	avgNoise := common.Mean(noiseEstimates)
	switch {
	case avgNoise > 0.05:
		return 0.8
	case avgNoise > 0.02:
		return 0.5
	case avgNoise > 0.01:
		return 0.2
	default:
		return 0.1
	}
}

// SpatialCharacteristics checks for the frequency breadth and dynamic
// swing typical of live rooms.
func (ld *LivenessDetector) SpatialCharacteristics(samples []float64, features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.SpectralRolloff > 8000.0 {
		score += 0.3
	}
	if features.SpectralCentroid > 2000.0 && features.SpectralCentroid < 5000.0 {
		score += 0.4
	}

	if len(samples) > 0 {
		maxSample, minSample := samples[0], samples[0]
		for _, s := range samples {
			if s > maxSample {
				maxSample = s
			}
			if s < minSample {
				minSample = s
			}
		}
		if maxSample-minSample > 1.5 {
			score += 0.3
		}
	}

	return math.Min(1.0, score)
}

// CrowdNoise looks for the broadband, voice-band signature of audiences
func (ld *LivenessDetector) CrowdNoise(features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.SpectralCentroid > 500.0 && features.SpectralCentroid < 2000.0 {
		score += 0.3
	}
	if features.ZeroCrossingRate > 0.05 {
		score += 0.4
	}
	if features.SpectralCentroid > 0 && features.SpectralRolloff/features.SpectralCentroid > 3.0 {
		score += 0.3
	}

	return math.Min(1.0, score)
}
