package rhythm

import (
	"math"
	"sort"

	"github.com/harmonia-audio/harmonia/algorithms/common"
)

// MeterDetector infers the time signature numerator from beat accent
// patterns. Supported meters are 3, 4, 5, 6 and 7; anything ambiguous
// falls back to 4.
type MeterDetector struct{}

// NewMeterDetector creates a new meter detector
func NewMeterDetector() *MeterDetector {
	return &MeterDetector{}
}

// DefaultTimeSignature is used when too few beats exist to vote
const DefaultTimeSignature = 4

// Detect returns the time signature numerator for the given beats
func (md *MeterDetector) Detect(beats Beats) int {
	pattern := accentPattern(beats)
	return analyzeMeter(pattern)
}

// accentPattern needs at least 8 beats to say anything; it validates
// that a dominant inter-beat interval exists, then returns the first 16
// beat strengths as the accent sequence.
func accentPattern(beats Beats) []float64 {
	if len(beats.Times) < 8 {
		return nil
	}

	intervals := beats.Intervals()

	// Quantize intervals to 10ms and find the dominant one. Candidates
	// are scanned in ascending order so ties resolve deterministically.
	counts := make(map[int]int)
	for _, interval := range intervals {
		counts[int(math.Round(interval*100))]++
	}
	quantized := make([]int, 0, len(counts))
	for q := range counts {
		quantized = append(quantized, q)
	}
	sort.Ints(quantized)

	basicBeat := 0
	maxCount := 0
	for _, q := range quantized {
		if counts[q] > maxCount {
			maxCount = counts[q]
			basicBeat = q
		}
	}
	if basicBeat == 0 {
		return nil
	}

	n := min(len(beats.Strengths), 16)
	pattern := make([]float64, n)
	copy(pattern, beats.Strengths[:n])
	return pattern
}

func analyzeMeter(pattern []float64) int {
	if len(pattern) < 4 {
		return DefaultTimeSignature
	}

	if isThreeQuarterTime(pattern) {
		return 3
	}
	if isSixEightTime(pattern) {
		return 6
	}
	if isComplexMeter(pattern) && len(pattern) >= 7 {
		var strength7, strength5 float64
		for i := 0; i < len(pattern); i += 7 {
			strength7 += pattern[i]
		}
		for i := 0; i < len(pattern); i += 5 {
			strength5 += pattern[i]
		}
		if strength7 > strength5 {
			return 7
		}
		if strength5 > 0 {
			return 5
		}
	}

	return DefaultTimeSignature
}

// isThreeQuarterTime looks for a strong-weak-weak accent cycle
func isThreeQuarterTime(pattern []float64) bool {
	if len(pattern) < 6 {
		return false
	}

	var accent1, accent2, accent3 float64
	count := 0
	for i := 0; i+2 < len(pattern); i += 3 {
		accent1 += pattern[i]
		accent2 += pattern[i+1]
		accent3 += pattern[i+2]
		count++
	}
	if count == 0 {
		return false
	}

	accent1 /= float64(count)
	accent2 /= float64(count)
	accent3 /= float64(count)

	return accent1 > accent2*1.2 && accent1 > accent3*1.2
}

// isSixEightTime looks for strong-weak-weak-medium-weak-weak cycles
func isSixEightTime(pattern []float64) bool {
	if len(pattern) < 6 {
		return false
	}

	var accent1, accent4, others float64
	count := 0
	for i := 0; i+5 < len(pattern); i += 6 {
		accent1 += pattern[i]
		accent4 += pattern[i+3]
		others += (pattern[i+1] + pattern[i+2] + pattern[i+4] + pattern[i+5]) / 4.0
		count++
	}
	if count == 0 {
		return false
	}

	accent1 /= float64(count)
	accent4 /= float64(count)
	others /= float64(count)

	return accent1 > others*1.3 && accent4 > others*1.1 && accent1 > accent4*1.1
}

// isComplexMeter flags irregular accent sequences that fit neither
// 3/4 nor 4/4.
func isComplexMeter(pattern []float64) bool {
	if len(pattern) < 5 {
		return false
	}
	return common.CoefficientOfVariation(pattern) > 0.5
}
