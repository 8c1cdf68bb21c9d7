package rhythm

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/common"
)

// Beats holds beat positions (seconds) and strengths
type Beats struct {
	Times     []float64 `json:"times"`
	Strengths []float64 `json:"strengths"`
}

// Beats are the onsets that stand out against the average onset strength
const beatStrengthRatio = 1.2

// BeatsFromOnsets keeps only onsets stronger than 1.2x the average
// onset strength.
func BeatsFromOnsets(onsets Onsets) Beats {
	beats := Beats{Times: []float64{}, Strengths: []float64{}}
	if len(onsets.Times) == 0 {
		return beats
	}

	avg := common.Mean(onsets.Strengths)
	for i, t := range onsets.Times {
		if onsets.Strengths[i] > avg*beatStrengthRatio {
			beats.Times = append(beats.Times, t)
			beats.Strengths = append(beats.Strengths, onsets.Strengths[i])
		}
	}

	return beats
}

// Intervals returns the inter-beat intervals in seconds
func (b Beats) Intervals() []float64 {
	var intervals []float64
	for i := 1; i < len(b.Times); i++ {
		intervals = append(intervals, b.Times[i]-b.Times[i-1])
	}
	return intervals
}

// Strength scores how strong and consistent the beats are, in [0, 1]
func (b Beats) Strength() float64 {
	if len(b.Strengths) == 0 {
		return 0.0
	}

	avg := common.Mean(b.Strengths)
	maxStrength := 0.0
	for _, s := range b.Strengths {
		if s > maxStrength {
			maxStrength = s
		}
	}

	consistency := 0.0
	if maxStrength > 0 {
		consistency = avg / maxStrength
	}
	strength := math.Min(1.0, avg*10.0)

	return consistency*0.6 + strength*0.4
}

// Regularity scores timing evenness in [0, 1]: low variation between
// inter-beat intervals scores high. Fewer than three beats score 0.
func (b Beats) Regularity() float64 {
	if len(b.Times) < 3 {
		return 0.0
	}

	intervals := b.Intervals()
	mean := common.Mean(intervals)
	cv := 1.0
	if mean > 0 {
		cv = common.StdDev(intervals) / mean
	}

	return math.Max(0.0, 1.0-cv*2.0)
}

// Syncopation scores off-beat emphasis in [0, 1] by looking for strong
// beats between uneven intervals.
func (b Beats) Syncopation() float64 {
	if len(b.Times) < 4 {
		return 0.0
	}

	score := 0.0
	for i := 1; i < len(b.Times)-1; i++ {
		prev := b.Times[i] - b.Times[i-1]
		next := b.Times[i+1] - b.Times[i]

		lo, hi := prev, next
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo <= 0 {
			continue
		}
		ratio := hi / lo
		if ratio > 1.2 && ratio < 2.0 {
			score += b.Strengths[i]
		}
	}

	avg := common.Mean(b.Strengths)
	if avg <= 0 {
		return 0.0
	}
	return math.Min(1.0, score/(avg*float64(len(b.Strengths))))
}
