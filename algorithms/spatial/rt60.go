// Package spatial estimates the acoustic environment of a recording:
// reverberation time and the liveness score built on it.
package spatial

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
)

// DefaultRT60 is reported when no decay can be measured at all
const DefaultRT60 = 0.1

// RT60Estimator measures reverberation time with the Schroeder backward
// integration method, seeded by impulse-like events in the signal.
type RT60Estimator struct{}

// NewRT60Estimator creates a new RT60 estimator
func NewRT60Estimator() *RT60Estimator {
	return &RT60Estimator{}
}

// Estimate returns the median RT60 across detected impulses, falling
// back to a coarse whole-signal decay estimate when no impulse leaves a
// clean tail.
func (re *RT60Estimator) Estimate(samples []float64, sampleRate int) float64 {
	windowSize := int(0.005 * float64(sampleRate))
	if windowSize < 2 {
		return DefaultRT60
	}
	hopSize := windowSize / 2

	impulses := re.DetectImpulses(samples, sampleRate)
	if len(impulses) == 0 {
		return re.estimateFromDecay(samples, sampleRate)
	}

	var estimates []float64
	for _, impulseIdx := range impulses {
		if impulseIdx+sampleRate*2 > len(samples) {
			continue
		}

		decaySegment := samples[impulseIdx : impulseIdx+sampleRate*2]
		energyCurve := audio.WindowedEnergy(decaySegment, windowSize, hopSize)
		schroeder := schroederIntegration(energyCurve)
		rt60 := fitRT60(schroeder, float64(hopSize)/float64(sampleRate))

		if rt60 > 0.05 && rt60 < 10.0 {
			estimates = append(estimates, rt60)
		}
	}

	if len(estimates) == 0 {
		return re.estimateFromDecay(samples, sampleRate)
	}

	return common.Median(estimates)
}

// DetectImpulses returns sample indices of energy bursts at least 4x
// the mean short-term energy and 500 ms apart.
func (re *RT60Estimator) DetectImpulses(samples []float64, sampleRate int) []int {
	windowSize := int(0.01 * float64(sampleRate))
	if windowSize < 2 {
		return nil
	}

	var energy []float64
	for start := 0; start+windowSize <= len(samples); start += windowSize / 2 {
		e := 0.0
		for _, s := range samples[start : start+windowSize] {
			e += s * s
		}
		energy = append(energy, e/float64(windowSize))
	}
	if len(energy) < 3 {
		return nil
	}

	threshold := common.Mean(energy) * 4.0
	minGap := int(float64(sampleRate) * 0.5)

	var impulses []int
	for i := 1; i < len(energy)-1; i++ {
		if energy[i] > threshold && energy[i] > energy[i-1] && energy[i] > energy[i+1] {
			sampleIdx := i * windowSize / 2
			if len(impulses) == 0 || sampleIdx-impulses[len(impulses)-1] > minGap {
				impulses = append(impulses, sampleIdx)
			}
		}
	}

	return impulses
}

// schroederIntegration converts an energy curve into a backward
// integrated decay curve in dB relative to total energy.
func schroederIntegration(energy []float64) []float64 {
	schroeder := make([]float64, len(energy))

	totalEnergy := 0.0
	for _, e := range energy {
		totalEnergy += e
	}
	if totalEnergy <= 0 {
		return schroeder
	}

	cumulative := 0.0
	for i := len(energy) - 1; i >= 0; i-- {
		cumulative += energy[i]
		schroeder[i] = 10.0 * math.Log10(cumulative/totalEnergy+1e-10)
	}

	return schroeder
}

// fitRT60 regresses the decay curve between its -5 dB and -35 dB points
// and extrapolates the slope to a 60 dB decay time.
func fitRT60(schroeder []float64, timeStep float64) float64 {
	if len(schroeder) < 10 {
		return DefaultRT60
	}

	idx5dB, idx35dB := -1, -1
	for i, v := range schroeder {
		if idx5dB < 0 && v <= -5.0 {
			idx5dB = i
		}
		if idx35dB < 0 && v <= -35.0 {
			idx35dB = i
			break
		}
	}
	if idx5dB < 0 || idx35dB < 0 || idx35dB <= idx5dB {
		// Noise floor reached before -35 dB; use a fixed slice instead
		idx5dB = len(schroeder) / 10
		idx35dB = len(schroeder) / 2
	}

	x := make([]float64, 0, idx35dB-idx5dB+1)
	y := make([]float64, 0, idx35dB-idx5dB+1)
	for i := idx5dB; i <= idx35dB; i++ {
		x = append(x, float64(i)*timeStep)
		y = append(y, schroeder[i])
	}

	if len(x) < 2 {
		return DefaultRT60
	}
	slope, _ := common.LinRegression(x, y)
	if slope >= 0 {
		return DefaultRT60
	}

	rt60 := -60.0 / slope
	return common.Clamp(rt60, 0.05, 10.0)
}

// estimateFromDecay is the coarse fallback: 100 ms block energies, time
// from the peak block to a 20 dB drop, extrapolated threefold.
func (re *RT60Estimator) estimateFromDecay(samples []float64, sampleRate int) float64 {
	blockSize := int(0.1 * float64(sampleRate))
	if blockSize <= 0 {
		return DefaultRT60
	}

	var blockEnergy []float64
	for start := 0; start+blockSize <= len(samples); start += blockSize {
		energy := 0.0
		for _, s := range samples[start : start+blockSize] {
			energy += s * s
		}
		blockEnergy = append(blockEnergy, 10.0*math.Log10(energy/float64(blockSize)+1e-10))
	}
	if len(blockEnergy) < 5 {
		return DefaultRT60
	}

	peakIdx := 0
	for i, v := range blockEnergy {
		if v > blockEnergy[peakIdx] {
			peakIdx = i
		}
	}
	if peakIdx >= len(blockEnergy)-2 {
		return DefaultRT60
	}

	threshold := blockEnergy[peakIdx] - 20.0
	decayIdx := -1
	for i := peakIdx + 1; i < len(blockEnergy); i++ {
		if blockEnergy[i] <= threshold {
			decayIdx = i
			break
		}
	}
	if decayIdx < 0 {
		return DefaultRT60
	}

	time20dB := float64(decayIdx-peakIdx) * 0.1
	return common.Clamp(time20dB*3.0, 0.05, 2.0)
}
