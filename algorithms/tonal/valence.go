package tonal

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// ValenceAnalyzer estimates musical positivity from harmony, melody,
// tempo and timbre.
type ValenceAnalyzer struct{}

// NewValenceAnalyzer creates a new valence analyzer
func NewValenceAnalyzer() *ValenceAnalyzer {
	return &ValenceAnalyzer{}
}

// Major and minor triad templates rooted at C
var (
	majorTriad = [12]float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
	minorTriad = [12]float64{1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0}
)

// Compute blends the four valence components into a [0, 1] score
func (va *ValenceAnalyzer) Compute(chroma audio.ChromaVector, features audio.SpectralFeatures, bpm float64) float64 {
	majorHarmony := va.MajorHarmony(chroma)
	melodicPositivity := va.MelodicPositivity(chroma, features)
	tempoFactor := va.TempoFactor(bpm)
	brightness := va.TimbralBrightness(features)

	return majorHarmony*0.3 + melodicPositivity*0.2 + tempoFactor*0.2 + brightness*0.3
}

// MajorHarmony returns the share of triad correlation won by the major
// template across all 12 transpositions. 0.5 means ambiguous.
func (va *ValenceAnalyzer) MajorHarmony(chroma audio.ChromaVector) float64 {
	var majorScore, minorScore float64

	for root := 0; root < 12; root++ {
		var majorCorr, minorCorr float64
		for i := 0; i < 12; i++ {
			chromaIdx := (i + root) % 12
			majorCorr += chroma.Chroma[chromaIdx] * majorTriad[i]
			minorCorr += chroma.Chroma[chromaIdx] * minorTriad[i]
		}
		majorScore = math.Max(majorScore, majorCorr)
		minorScore = math.Max(minorScore, minorCorr)
	}

	total := majorScore + minorScore
	if total <= 0 {
		return 0.5
	}
	return majorScore / total
}

// MelodicPositivity blends spectral brightness with chordal consonance
func (va *ValenceAnalyzer) MelodicPositivity(chroma audio.ChromaVector, features audio.SpectralFeatures) float64 {
	normalizedCentroid := math.Min(1.0, features.SpectralCentroid/3000.0)
	consonance := va.Consonance(chroma)
	return normalizedCentroid*0.4 + consonance*0.6
}

// Consonance scores the prevalence of perfect fifths and thirds between
// active pitch classes.
func (va *ValenceAnalyzer) Consonance(chroma audio.ChromaVector) float64 {
	score := 0.0
	for root := 0; root < 12; root++ {
		score += chroma.Chroma[root] * chroma.Chroma[(root+7)%12] * 0.8 // perfect fifth
		score += chroma.Chroma[root] * chroma.Chroma[(root+4)%12] * 0.6 // major third
		score += chroma.Chroma[root] * chroma.Chroma[(root+3)%12] * 0.3 // minor third
	}
	return math.Min(1.0, score*5.0)
}

// TempoFactor maps BPM onto perceived positivity
func (va *ValenceAnalyzer) TempoFactor(bpm float64) float64 {
	switch {
	case bpm >= 120.0 && bpm <= 140.0:
		return 0.9
	case bpm >= 100.0 && bpm <= 160.0:
		return 0.8
	case bpm >= 80.0 && bpm < 100.0:
		return 0.6
	case bpm >= 60.0 && bpm < 80.0:
		return 0.3
	case bpm < 60.0:
		return 0.1
	case bpm > 160.0:
		return 0.7
	default:
		return 0.5
	}
}

// TimbralBrightness blends normalized centroid with the high-frequency
// energy ratio above 2 kHz.
func (va *ValenceAnalyzer) TimbralBrightness(features audio.SpectralFeatures) float64 {
	brightness := math.Min(1.0, features.SpectralCentroid/4000.0)

	var totalEnergy, highFreqEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag
		if features.Frequencies[i] > 2000.0 {
			highFreqEnergy += mag
		}
	}

	highFreqRatio := 0.0
	if totalEnergy > 0 {
		highFreqRatio = highFreqEnergy / totalEnergy
	}

	return brightness*0.7 + highFreqRatio*0.3
}
