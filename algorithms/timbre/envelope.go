// Package timbre covers acousticness, instrumentalness, speechiness and
// the characteristic tag extractor.
package timbre

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// AttackProfile describes the onset transient of an envelope event
type AttackProfile struct {
	Duration  float64 `json:"duration"`
	Slope     float64 `json:"slope"`
	Sharpness float64 `json:"sharpness"`
}

// DecayProfile describes how an envelope event dies away
type DecayProfile struct {
	Duration float64 `json:"duration"`
	Rate     float64 `json:"rate"`
	Type     string  `json:"type"`
}

// Decay classification boundaries (log-domain decay rate)
const (
	sustainedDecayRate = 5.0
	naturalDecayRate   = 20.0
)

// EnvelopeAnalyzer models attack/decay transients over a fine-grained
// RMS envelope (2 ms windows, 75% overlap).
type EnvelopeAnalyzer struct{}

// NewEnvelopeAnalyzer creates a new envelope analyzer
func NewEnvelopeAnalyzer() *EnvelopeAnalyzer {
	return &EnvelopeAnalyzer{}
}

const envelopeHopSec = 0.0005 // 2ms window / 4

// AttackDecayScore rates how closely the signal's transients resemble
// acoustic instruments. Signals too short for envelope analysis score a
// neutral 0.5.
func (ea *EnvelopeAnalyzer) AttackDecayScore(samples []float64, sampleRate int) float64 {
	windowSize := int(0.002 * float64(sampleRate))
	if windowSize < 4 {
		return 0.5
	}
	hopSize := windowSize / 4

	envelope := audio.WindowedRMS(samples, windowSize, hopSize)
	if len(envelope) < 10 {
		return 0.5
	}

	smoothed := smoothEnvelope(envelope, 3)
	onsets := envelopeOnsets(smoothed)
	if len(onsets) == 0 {
		return 0.5
	}

	totalScore := 0.0
	for _, onsetIdx := range onsets {
		attack := analyzeAttack(smoothed, onsetIdx)

		peakIdx := onsetIdx
		end := min(onsetIdx+50, len(smoothed))
		for i := onsetIdx; i < end; i++ {
			if smoothed[i] > smoothed[peakIdx] {
				peakIdx = i
			}
		}
		decay := analyzeDecay(smoothed, peakIdx)

		totalScore += scoreAcousticTransient(attack, decay)
	}

	return totalScore / float64(len(onsets))
}

func smoothEnvelope(envelope []float64, window int) []float64 {
	smoothed := make([]float64, len(envelope))
	for i := range envelope {
		sum := 0.0
		count := 0
		for j := -window; j <= window; j++ {
			if idx := i + j; idx >= 0 && idx < len(envelope) {
				sum += envelope[idx]
				count++
			}
		}
		smoothed[i] = sum / float64(count)
	}
	return smoothed
}

// envelopeOnsets finds local maxima of the envelope velocity, at least
// 100 ms (20 frames) apart.
func envelopeOnsets(envelope []float64) []int {
	if len(envelope) < 3 {
		return nil
	}

	velocity := make([]float64, len(envelope)-1)
	for i := range velocity {
		velocity[i] = envelope[i+1] - envelope[i]
	}

	const velocityThreshold = 0.001
	var onsets []int
	for i := 1; i < len(velocity)-1; i++ {
		if velocity[i] > velocityThreshold &&
			velocity[i] > velocity[i-1] &&
			velocity[i] > velocity[i+1] {
			if len(onsets) == 0 || i-onsets[len(onsets)-1] > 20 {
				onsets = append(onsets, i)
			}
		}
	}
	return onsets
}

// analyzeAttack measures the 10%-to-90% rise of the event following an
// onset.
func analyzeAttack(envelope []float64, onsetIdx int) AttackProfile {
	peakIdx := onsetIdx
	peakValue := envelope[onsetIdx]
	end := min(onsetIdx+50, len(envelope))
	for i := onsetIdx; i < end; i++ {
		if envelope[i] > peakValue {
			peakValue = envelope[i]
			peakIdx = i
		}
	}

	threshold10 := peakValue * 0.1
	threshold90 := peakValue * 0.9

	idx10 := onsetIdx
	idx90 := peakIdx
	for i := onsetIdx; i <= peakIdx; i++ {
		if envelope[i] >= threshold10 && idx10 == onsetIdx {
			idx10 = i
		}
		if envelope[i] >= threshold90 {
			idx90 = i
			break
		}
	}

	duration := float64(idx90-idx10) * envelopeHopSec
	return AttackProfile{
		Duration:  duration,
		Slope:     (envelope[idx90] - envelope[idx10]) / (duration + 1e-6),
		Sharpness: 1.0 / (duration + 0.001),
	}
}

// analyzeDecay fits a log-linear decay model from the peak down to 40%
// of its value.
func analyzeDecay(envelope []float64, peakIdx int) DecayProfile {
	if peakIdx >= len(envelope)-10 {
		return DecayProfile{Duration: 0.1, Rate: 10.0, Type: "unknown"}
	}

	peakValue := envelope[peakIdx]
	threshold := peakValue * 0.4

	decayIdx := peakIdx
	for i := peakIdx + 1; i < len(envelope); i++ {
		if envelope[i] <= threshold {
			decayIdx = i
			break
		}
	}

	profile := DecayProfile{Duration: float64(decayIdx-peakIdx) * envelopeHopSec}

	var sumXY, sumX, sumY, sumX2 float64
	points := 0
	for i := peakIdx; i <= decayIdx && i < len(envelope); i++ {
		if envelope[i] > 0 {
			x := float64(i-peakIdx) * envelopeHopSec
			y := math.Log(envelope[i] / peakValue)
			sumX += x
			sumY += y
			sumXY += x * y
			sumX2 += x * x
			points++
		}
	}

	if points > 2 && sumX2*float64(points)-sumX*sumX != 0 {
		rate := (sumXY*float64(points) - sumX*sumY) / (sumX2*float64(points) - sumX*sumX)
		profile.Rate = math.Abs(rate)
	} else {
		profile.Rate = 10.0
	}

	switch {
	case profile.Rate < sustainedDecayRate:
		profile.Type = "sustained"
	case profile.Rate < naturalDecayRate:
		profile.Type = "natural"
	default:
		profile.Type = "percussive"
	}

	return profile
}

func scoreAcousticTransient(attack AttackProfile, decay DecayProfile) float64 {
	score := 0.0

	// Moderate to fast attacks typify struck and plucked instruments
	if attack.Duration >= 0.005 && attack.Duration <= 0.05 {
		score += 0.3
	} else if attack.Duration < 0.005 {
		score += 0.2
	}

	switch decay.Type {
	case "natural":
		score += 0.4
	case "sustained":
		score += 0.2 // could be bowed strings
	}

	if attack.Sharpness > 20.0 && attack.Sharpness < 200.0 {
		score += 0.3
	}

	return math.Min(1.0, score)
}
