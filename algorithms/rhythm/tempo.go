package rhythm

import (
	"math"
	"sort"
)

// TempoEstimator derives BPM from inter-onset interval voting
type TempoEstimator struct {
	onsets *OnsetDetector
}

// NewTempoEstimator creates a new tempo estimator
func NewTempoEstimator() *TempoEstimator {
	return &TempoEstimator{onsets: NewOnsetDetector()}
}

const (
	// DefaultBPM is returned when no usable intervals exist
	DefaultBPM = 120.0

	minIntervalSec = 0.2
	maxIntervalSec = 2.0
	minVotableBPM  = 60
	maxVotableBPM  = 200
)

// Estimate detects onsets and returns the voted, octave-folded BPM.
// Signals without rhythmic content return DefaultBPM.
func (te *TempoEstimator) Estimate(samples []float64, sampleRate int) float64 {
	onsets := te.onsets.Detect(samples, sampleRate)
	return te.EstimateFromOnsets(onsets)
}

// EstimateFromOnsets runs the voting stage on already detected onsets
func (te *TempoEstimator) EstimateFromOnsets(onsets Onsets) float64 {
	bpm := voteBPM(onsets.Intervals())
	return foldOctave(bpm)
}

// voteBPM rounds each plausible inter-onset interval to an integer BPM
// and picks the candidate with the most votes. Candidates are scanned in
// ascending BPM order so ties resolve to the lowest tempo, independent
// of map iteration order.
func voteBPM(intervals []float64) float64 {
	if len(intervals) == 0 {
		return DefaultBPM
	}

	votes := make(map[int]float64)
	for _, interval := range intervals {
		if interval > minIntervalSec && interval < maxIntervalSec {
			bpm := int(math.Round(60.0 / interval))
			if bpm >= minVotableBPM && bpm <= maxVotableBPM {
				votes[bpm]++
			}
		}
	}

	candidates := make([]int, 0, len(votes))
	for bpm := range votes {
		candidates = append(candidates, bpm)
	}
	sort.Ints(candidates)

	bestBPM := 120
	bestScore := 0.0
	for _, bpm := range candidates {
		if votes[bpm] > bestScore {
			bestScore = votes[bpm]
			bestBPM = bpm
		}
	}

	return float64(bestBPM)
}

// foldOctave doubles implausibly slow tempi and halves implausibly
// fast ones.
func foldOctave(bpm float64) float64 {
	if bpm < 60 {
		return bpm * 2
	}
	if bpm > 200 {
		return bpm / 2
	}
	return bpm
}
