package loudness

import (
	"math"
	"sort"
)

// SilenceFloor is the loudness reported for silent or near-silent input
const SilenceFloor = -70.0

// Analyzer measures gated integrated loudness in LUFS
type Analyzer struct{}

// NewAnalyzer creates a new loudness analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

const (
	blockDurationSec = 0.4
	lufsOffset       = -0.691

	// Relative gate: 10 dB under the 90th percentile block
	gateDropDB = 10.0
)

// IntegratedLUFS K-weights the signal and returns its gated integrated
// loudness. Silence yields SilenceFloor.
func (a *Analyzer) IntegratedLUFS(samples []float64, sampleRate int) float64 {
	if len(samples) == 0 || sampleRate <= 0 {
		return SilenceFloor
	}

	weighted := NewKWeighting(sampleRate).Apply(samples)
	return a.integrate(weighted, sampleRate)
}

// integrate computes per-block loudness over non-overlapping 400 ms
// blocks, applies the relative gate and averages in the linear power
// domain.
func (a *Analyzer) integrate(weighted []float64, sampleRate int) float64 {
	blockSize := int(blockDurationSec * float64(sampleRate))
	if blockSize <= 0 {
		return SilenceFloor
	}

	var blockLoudness []float64
	for start := 0; start+blockSize <= len(weighted); start += blockSize {
		meanSquare := 0.0
		for _, s := range weighted[start : start+blockSize] {
			meanSquare += s * s
		}
		meanSquare /= float64(blockSize)

		if meanSquare > 0 {
			blockLoudness = append(blockLoudness, lufsOffset+10.0*math.Log10(meanSquare))
		}
	}

	if len(blockLoudness) == 0 {
		return SilenceFloor
	}

	sort.Float64s(blockLoudness)
	idx := int(float64(len(blockLoudness)) * 0.9)
	if idx >= len(blockLoudness) {
		idx = len(blockLoudness) - 1
	}
	relativeThreshold := blockLoudness[idx] - gateDropDB

	sumPower := 0.0
	validBlocks := 0
	for _, loudness := range blockLoudness {
		if loudness >= relativeThreshold {
			sumPower += math.Pow(10.0, loudness/10.0)
			validBlocks++
		}
	}
	if validBlocks == 0 {
		return SilenceFloor
	}

	return lufsOffset + 10.0*math.Log10(sumPower/float64(validBlocks))
}
