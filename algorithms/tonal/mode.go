package tonal

import (
	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// ModeDetector classifies a signal as Major or Minor from the relative
// weight of major-third vs minor-third intervals in the chroma vector.
// It is independent of the key detector and the two can disagree on
// harmonically sparse material.
type ModeDetector struct {
	chroma *audio.ChromaAnalyzer
}

// NewModeDetector creates a new mode detector
func NewModeDetector() *ModeDetector {
	return &ModeDetector{chroma: audio.NewChromaAnalyzer()}
}

// Major thirds must dominate by this ratio before we call it Major
const modeMajorRatio = 1.2

// Detect returns "Major" or "Minor"
func (md *ModeDetector) Detect(samples []float64, sampleRate int) string {
	chroma := md.chroma.Compute(samples, sampleRate)
	return md.Classify(chroma)
}

// Classify applies the third-interval test to a chroma vector
func (md *ModeDetector) Classify(chroma audio.ChromaVector) string {
	majorStrength := thirdStrength(chroma, 4)
	minorStrength := thirdStrength(chroma, 3)

	if majorStrength > minorStrength*modeMajorRatio {
		return "Major"
	}
	return "Minor"
}

// thirdStrength sums the co-occurrence of every pitch class with the
// class `interval` semitones above it.
func thirdStrength(chroma audio.ChromaVector, interval int) float64 {
	strength := 0.0
	for root := 0; root < 12; root++ {
		strength += chroma.Chroma[root] * chroma.Chroma[(root+interval)%12]
	}
	return strength
}
