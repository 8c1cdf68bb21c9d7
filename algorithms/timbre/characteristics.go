package timbre

import (
	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/loudness"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
)

// CharacteristicsExtractor derives short descriptive tags from spectral
// shape, rhythm and production effects. Output order is fixed by rule
// order so identical input always yields identical tags.
type CharacteristicsExtractor struct{}

// NewCharacteristicsExtractor creates a new characteristics extractor
func NewCharacteristicsExtractor() *CharacteristicsExtractor {
	return &CharacteristicsExtractor{}
}

// MaxCharacteristics caps the tag list
const MaxCharacteristics = 5

// Extract combines timbral, rhythmic and effect tags, truncated to
// MaxCharacteristics.
func (ce *CharacteristicsExtractor) Extract(samples []float64, sampleRate int, features audio.SpectralFeatures, bpm float64, onsets rhythm.Onsets, liveness float64) []string {
	tags := ce.TimbralTags(features)
	tags = append(tags, ce.RhythmicTags(bpm, onsets)...)
	tags = append(tags, ce.EffectTags(samples, sampleRate, features, liveness)...)

	if len(tags) > MaxCharacteristics {
		tags = tags[:MaxCharacteristics]
	}
	return tags
}

// TimbralTags classifies brightness, percussiveness and spectral width
func (ce *CharacteristicsExtractor) TimbralTags(features audio.SpectralFeatures) []string {
	var tags []string

	switch {
	case features.SpectralCentroid > 4000.0:
		tags = append(tags, "Bright")
	case features.SpectralCentroid < 1000.0:
		tags = append(tags, "Dark")
	default:
		tags = append(tags, "Balanced")
	}

	if features.ZeroCrossingRate > 0.1 {
		tags = append(tags, "Percussive")
	} else if features.ZeroCrossingRate < 0.02 {
		tags = append(tags, "Smooth")
	}

	if features.SpectralRolloff > 8000.0 {
		tags = append(tags, "Full-spectrum")
	} else if features.SpectralRolloff < 3000.0 {
		tags = append(tags, "Muffled")
	}

	if HasDistortion(features) {
		tags = append(tags, "Distorted")
	}

	return tags
}

// RhythmicTags classifies drive and rhythmic density
func (ce *CharacteristicsExtractor) RhythmicTags(bpm float64, onsets rhythm.Onsets) []string {
	var tags []string

	switch {
	case bpm > 140.0:
		tags = append(tags, "Driving rhythm")
	case bpm < 80.0:
		tags = append(tags, "Laid-back rhythm")
	default:
		tags = append(tags, "Moderate rhythm")
	}

	if density := onsets.Density(); len(onsets.Times) > 0 {
		if density > 5.0 {
			tags = append(tags, "Complex rhythm")
		} else if density < 1.0 {
			tags = append(tags, "Simple rhythm")
		}
	}

	return tags
}

// EffectTags flags audible production effects
func (ce *CharacteristicsExtractor) EffectTags(samples []float64, sampleRate int, features audio.SpectralFeatures, liveness float64) []string {
	var tags []string

	if liveness > 0.3 {
		tags = append(tags, "Reverb")
	}
	if loudness.IsCompressed(samples, sampleRate) {
		tags = append(tags, "Compressed")
	}
	if HasDistortion(features) {
		tags = append(tags, "Distortion")
	}

	return tags
}

// HasDistortion flags heavy high-frequency content combined with a
// raised zero crossing rate.
func HasDistortion(features audio.SpectralFeatures) bool {
	var totalEnergy, highFreqEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag
		if features.Frequencies[i] > 5000.0 {
			highFreqEnergy += mag
		}
	}

	highFreqRatio := 0.0
	if totalEnergy > 0 {
		highFreqRatio = highFreqEnergy / totalEnergy
	}

	return highFreqRatio > 0.3 && features.ZeroCrossingRate > 0.08
}
