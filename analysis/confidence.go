package analysis

import (
	"math"
	"strings"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
	"github.com/harmonia-audio/harmonia/algorithms/loudness"
)

// ConfidenceCalculator scores how much the analysis output should be
// trusted: recording quality, cross-descriptor consistency and how
// decisive the individual descriptors came out.
type ConfidenceCalculator struct{}

// NewConfidenceCalculator creates a new confidence calculator
func NewConfidenceCalculator() *ConfidenceCalculator {
	return &ConfidenceCalculator{}
}

// Overall combines audio quality (30%), internal consistency (40%) and
// feature certainty (30%).
func (cc *ConfidenceCalculator) Overall(samples []float64, sampleRate int, features audio.SpectralFeatures, r *Result) float64 {
	quality := cc.AudioQuality(samples, sampleRate, features)
	consistency := cc.Consistency(r)
	certainty := cc.FeatureCertainty(r)

	return quality*0.3 + consistency*0.4 + certainty*0.3
}

// AudioQuality scores the recording itself: signal-to-noise ratio,
// dynamic range, spectral completeness and absence of codec artifacts.
func (cc *ConfidenceCalculator) AudioQuality(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	score := 0.0

	snr := SNR(samples, sampleRate)
	switch {
	case snr > 40.0:
		score += 0.3
	case snr > 20.0:
		score += 0.2
	case snr > 10.0:
		score += 0.1
	}

	score += math.Min(1.0, loudness.DynamicRangeDB(samples, sampleRate)/40.0) * 0.3

	if FrequencyResponseComplete(features) {
		score += 0.2
	}

	artifacts := cc.CompressionArtifacts(samples, sampleRate, features)
	score += (1.0 - artifacts) * 0.2

	return math.Min(1.0, score)
}

// SNR estimates signal-to-noise ratio in dB from the spread of 100 ms
// RMS values: the 10th percentile stands in for the noise floor, the
// 90th for the signal level.
func SNR(samples []float64, sampleRate int) float64 {
	windowSize := int(0.1 * float64(sampleRate))
	if windowSize <= 0 {
		return 0.0
	}

	rmsValues := audio.WindowedRMS(samples, windowSize, windowSize)
	if len(rmsValues) == 0 {
		return 0.0
	}

	noiseFloor := common.Percentile(rmsValues, 0.1)
	signalLevel := common.Percentile(rmsValues, 0.9)

	if noiseFloor == 0 {
		return 60.0
	}
	return 20.0 * math.Log10(signalLevel/noiseFloor)
}

// CompressionArtifacts scores lossy-codec fingerprints: raised zero
// crossing rate, a missing top octave and squashed dynamics.
func (cc *ConfidenceCalculator) CompressionArtifacts(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.ZeroCrossingRate > 0.2 {
		score += 0.3
	}

	var totalEnergy, highFreqEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag
		if features.Frequencies[i] > 15000.0 {
			highFreqEnergy += mag
		}
	}
	if totalEnergy > 0 && highFreqEnergy/totalEnergy < 0.01 {
		score += 0.4
	}

	if loudness.IsCompressed(samples, sampleRate) {
		score += 0.3
	}

	return math.Min(1.0, score)
}

// FrequencyResponseComplete checks that low, mid and high bands all
// carry a plausible share of the energy.
func FrequencyResponseComplete(features audio.SpectralFeatures) bool {
	if len(features.Frequencies) == 0 {
		return false
	}

	var totalEnergy float64
	for _, mag := range features.Magnitude {
		totalEnergy += mag
	}
	if totalEnergy == 0 {
		return false
	}

	var lowEnergy, midEnergy, highEnergy float64
	for i, mag := range features.Magnitude {
		switch {
		case features.Frequencies[i] < 500.0:
			lowEnergy += mag
		case features.Frequencies[i] < 4000.0:
			midEnergy += mag
		default:
			highEnergy += mag
		}
	}

	return lowEnergy/totalEnergy > 0.05 &&
		midEnergy/totalEnergy > 0.3 &&
		highEnergy/totalEnergy > 0.02
}

// Consistency cross-validates descriptor pairs that should agree:
// tempo with danceability, energy with valence, vocal content with
// instrumentalness, and key with mode. Each agreeing pair adds 0.25.
func (cc *ConfidenceCalculator) Consistency(r *Result) float64 {
	score := 0.0
	validations := 0

	if r.BPM > 0 && r.Danceability >= 0 {
		consistent := (r.BPM >= 90.0 && r.BPM <= 160.0 && r.Danceability > 0.5) ||
			(r.BPM < 80.0 && r.Danceability < 0.5)
		if consistent {
			score += 0.25
		}
		validations++
	}

	if r.Energy >= 0 && r.Valence >= 0 {
		consistent := (r.Energy > 0.7 && r.Valence > 0.6) ||
			(r.Energy < 0.3 && r.Valence < 0.4) ||
			(r.Energy >= 0.3 && r.Energy <= 0.7)
		if consistent {
			score += 0.25
		}
		validations++
	}

	if r.Instrumentalness >= 0 && r.Speechiness >= 0 {
		totalVocal := r.Speechiness + (1.0 - r.Instrumentalness)
		if totalVocal >= 0.8 && totalVocal <= 1.2 {
			score += 0.25
		}
		validations++
	}

	if r.Key != "" && r.Mode != "" {
		consistent := (strings.Contains(r.Key, "major") && r.Mode == "Major") ||
			(strings.Contains(r.Key, "minor") && r.Mode == "Minor")
		if consistent {
			score += 0.25
		}
		validations++
	}

	if validations == 0 {
		return 0.5
	}
	return score
}

// FeatureCertainty rewards descriptors that landed in plausible ranges,
// with extra weight for decisive (near 0 or near 1) scores.
func (cc *ConfidenceCalculator) FeatureCertainty(r *Result) float64 {
	score := 0.0
	features := 0

	if r.BPM >= 60.0 && r.BPM <= 200.0 {
		score += 0.1
		features++
	}

	if r.Energy >= 0.0 && r.Energy <= 1.0 {
		if r.Energy < 0.2 || r.Energy > 0.8 {
			score += 0.1
		} else {
			score += 0.05
		}
		features++
	}

	if r.Valence >= 0.0 && r.Valence <= 1.0 {
		if r.Valence < 0.2 || r.Valence > 0.8 {
			score += 0.1
		} else {
			score += 0.05
		}
		features++
	}

	if r.Danceability >= 0.0 && r.Danceability <= 1.0 {
		score += 0.08
		features++
	}

	if r.Acousticness >= 0.0 && r.Acousticness <= 1.0 {
		if r.Acousticness < 0.2 || r.Acousticness > 0.8 {
			score += 0.08
		} else {
			score += 0.04
		}
		features++
	}

	if r.Key != "" && r.Mode != "" {
		score += 0.1
		features++
	}

	if r.TimeSignature >= 3 && r.TimeSignature <= 7 {
		score += 0.05
		features++
	}

	if len(r.Characteristics) > 0 {
		score += 0.05
		features++
	}

	if r.Loudness >= -60.0 && r.Loudness <= 0.0 {
		score += 0.05
		features++
	}

	if r.Liveness >= 0.0 && r.Liveness <= 1.0 {
		score += 0.05
		features++
	}

	if features == 0 {
		return 0.1
	}
	return score
}
