package loudness

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
)

// EnergyAnalyzer scores perceptual intensity from loudness, spectral
// content and rhythmic activity.
type EnergyAnalyzer struct{}

// NewEnergyAnalyzer creates a new energy analyzer
func NewEnergyAnalyzer() *EnergyAnalyzer {
	return &EnergyAnalyzer{}
}

// Compute returns energy in [0, 1]
func (ea *EnergyAnalyzer) Compute(samples []float64, sampleRate int, features audio.SpectralFeatures, onsets rhythm.Onsets) float64 {
	loudnessEnergy := ea.LoudnessEnergy(samples)
	spectralEnergy := ea.SpectralEnergy(features)
	rhythmicEnergy := ea.RhythmicEnergy(samples, sampleRate, onsets)

	return loudnessEnergy*0.3 + spectralEnergy*0.3 + rhythmicEnergy*0.4
}

// LoudnessEnergy buckets overall RMS into an energy scale
func (ea *EnergyAnalyzer) LoudnessEnergy(samples []float64) float64 {
	rms := audio.RMS(samples)
	switch {
	case rms > 0.5:
		return 1.0
	case rms > 0.3:
		return 0.8
	case rms > 0.1:
		return 0.6
	case rms > 0.05:
		return 0.4
	case rms > 0.01:
		return 0.2
	default:
		return 0.1
	}
}

// SpectralEnergy blends high-frequency ratio, brightness and bandwidth
func (ea *EnergyAnalyzer) SpectralEnergy(features audio.SpectralFeatures) float64 {
	energy := 0.0

	var highFreqEnergy, totalEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag
		if features.Frequencies[i] > 2000.0 {
			highFreqEnergy += mag
		}
	}
	if totalEnergy > 0 {
		energy += (highFreqEnergy / totalEnergy) * 0.5
	}

	energy += math.Min(1.0, features.SpectralCentroid/4000.0) * 0.3
	energy += math.Min(1.0, features.SpectralRolloff/10000.0) * 0.2

	return math.Min(1.0, energy)
}

// RhythmicEnergy blends onset density with dynamic range
func (ea *EnergyAnalyzer) RhythmicEnergy(samples []float64, sampleRate int, onsets rhythm.Onsets) float64 {
	density := ea.onsetDensityScore(onsets)
	dynamics := math.Min(1.0, DynamicRangeDB(samples, sampleRate)/40.0)

	return math.Min(1.0, density*0.6+dynamics*0.4)
}

func (ea *EnergyAnalyzer) onsetDensityScore(onsets rhythm.Onsets) float64 {
	if len(onsets.Times) == 0 {
		return 0.0
	}
	density := onsets.Density()
	switch {
	case density > 10.0:
		return 1.0
	case density > 5.0:
		return 0.8
	case density > 2.0:
		return 0.6
	case density > 1.0:
		return 0.4
	case density > 0.5:
		return 0.2
	default:
		return 0.1
	}
}
