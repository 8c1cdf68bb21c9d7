package timbre

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// InstrumentalnessDetector estimates the absence of vocals. The score
// is the complement of a vocal probability built from formant structure,
// centroid placement and sustained pitch strength.
type InstrumentalnessDetector struct{}

// NewInstrumentalnessDetector creates a new instrumentalness detector
func NewInstrumentalnessDetector() *InstrumentalnessDetector {
	return &InstrumentalnessDetector{}
}

// Compute returns instrumentalness in [0, 1]
func (id *InstrumentalnessDetector) Compute(features audio.SpectralFeatures, chroma audio.ChromaVector) float64 {
	return 1.0 - id.VocalProbability(features, chroma)
}

// VocalProbability scores the likelihood of vocal content
func (id *InstrumentalnessDetector) VocalProbability(features audio.SpectralFeatures, chroma audio.ChromaVector) float64 {
	formants := id.FormantFrequencies(features)

	score := 0.0

	// Vowels put F1 around 200-1000 Hz and F2 around 800-2500 Hz
	hasF1, hasF2 := false, false
	for _, formant := range formants {
		if formant >= 200.0 && formant <= 1000.0 {
			hasF1 = true
		}
		if formant >= 800.0 && formant <= 2500.0 {
			hasF2 = true
		}
	}
	if hasF1 && hasF2 {
		score += 0.6
	}

	if features.SpectralCentroid >= 500.0 && features.SpectralCentroid <= 2000.0 {
		score += 0.2
	}

	// A dominant pitch class suggests sustained sung notes
	if chroma.Max() > 0.3 {
		score += 0.2
	}

	return math.Min(1.0, score)
}

// Local maxima below this fraction of the spectral peak are noise, not
// formants.
const formantMagnitudeGate = 0.05

// FormantFrequencies picks spectral peaks between 100 and 3000 Hz that
// dominate both immediate and second neighbors and carry real energy.
// Without the magnitude gate the numeric noise floor of the FFT sprouts
// local maxima everywhere, and a single pure tone would read as vocal.
func (id *InstrumentalnessDetector) FormantFrequencies(features audio.SpectralFeatures) []float64 {
	maxMagnitude := 0.0
	for _, mag := range features.Magnitude {
		if mag > maxMagnitude {
			maxMagnitude = mag
		}
	}
	gate := maxMagnitude * formantMagnitudeGate

	var formants []float64
	for i := 2; i < len(features.Magnitude)-2; i++ {
		if features.Frequencies[i] > 100.0 && features.Frequencies[i] < 3000.0 {
			if features.Magnitude[i] > gate &&
				features.Magnitude[i] > features.Magnitude[i-1] &&
				features.Magnitude[i] > features.Magnitude[i+1] &&
				features.Magnitude[i] > features.Magnitude[i-2] &&
				features.Magnitude[i] > features.Magnitude[i+2] {
				formants = append(formants, features.Frequencies[i])
			}
		}
	}

	return formants
}
