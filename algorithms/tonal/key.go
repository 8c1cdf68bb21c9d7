// Package tonal covers key, mode, valence and pitch analysis.
package tonal

import (
	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// Krumhansl-Schmuckler key profiles
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

	keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

// KeyDetector estimates the musical key of a signal using the
// Krumhansl-Schmuckler template matching algorithm.
type KeyDetector struct {
	chroma *audio.ChromaAnalyzer
}

// NewKeyDetector creates a new key detector
func NewKeyDetector() *KeyDetector {
	return &KeyDetector{chroma: audio.NewChromaAnalyzer()}
}

// Detect returns the key as "<pitch class> major|minor", e.g. "A minor"
func (kd *KeyDetector) Detect(samples []float64, sampleRate int) string {
	chroma := kd.chroma.Compute(samples, sampleRate)
	return kd.MatchTemplate(chroma)
}

// MatchTemplate correlates the chroma vector against all 24 rotated key
// profiles and returns the best match. Major beats minor on exact ties,
// lower roots beat higher ones.
func (kd *KeyDetector) MatchTemplate(chroma audio.ChromaVector) string {
	bestCorrelation := -1.0
	bestKey := "C major"

	for root := 0; root < 12; root++ {
		var majorCorr, minorCorr float64
		for i := 0; i < 12; i++ {
			chromaticIndex := (i + root) % 12
			majorCorr += chroma.Chroma[chromaticIndex] * majorProfile[i]
			minorCorr += chroma.Chroma[chromaticIndex] * minorProfile[i]
		}

		if majorCorr > bestCorrelation {
			bestCorrelation = majorCorr
			bestKey = keyNames[root] + " major"
		}
		if minorCorr > bestCorrelation {
			bestCorrelation = minorCorr
			bestKey = keyNames[root] + " minor"
		}
	}

	return bestKey
}
