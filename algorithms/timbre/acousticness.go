package timbre

import (
	"math"
	"sort"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// AcousticnessAnalyzer scores how acoustic (vs electronic) a signal
// sounds by combining harmonic-to-noise ratio, instrument transient
// characteristics and synthetic-production markers.
type AcousticnessAnalyzer struct {
	envelope *EnvelopeAnalyzer
}

// NewAcousticnessAnalyzer creates a new acousticness analyzer
func NewAcousticnessAnalyzer() *AcousticnessAnalyzer {
	return &AcousticnessAnalyzer{envelope: NewEnvelopeAnalyzer()}
}

// Compute returns the acousticness score in [0, 1]
func (aa *AcousticnessAnalyzer) Compute(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	harmonicContent := aa.HarmonicContent(features)
	instrumentScore := aa.instrumentScore(samples, sampleRate, features)
	syntheticElements := aa.SyntheticElements(features)

	// Strongly harmonic signals without synthesis markers are acoustic;
	// strongly synthetic ones are not. Everything else blends.
	if harmonicContent > 0.7 && syntheticElements < 0.3 {
		return math.Max(0.7, harmonicContent)
	}
	if syntheticElements > 0.8 {
		return math.Min(0.2, 1.0-syntheticElements)
	}

	return harmonicContent*0.5 + instrumentScore*0.3 + (1.0-syntheticElements)*0.2
}

// HarmonicContent estimates the harmonic-to-noise ratio by locating the
// fundamental, marking bins near its first ten harmonics as harmonic
// energy and treating everything else as noise. The HNR is squashed to
// [0, 1) with tanh.
func (aa *AcousticnessAnalyzer) HarmonicContent(features audio.SpectralFeatures) float64 {
	fundamental := aa.FundamentalFrequency(features)
	if fundamental <= 0 {
		return 0.0
	}

	binResolution := (float64(features.SampleRate) / 2.0) / float64(len(features.Magnitude))
	fundamentalBin := int(fundamental / binResolution)

	const maxHarmonics = 10
	harmonicBins := make([]bool, len(features.Magnitude))

	for harmonic := 1; harmonic <= maxHarmonics; harmonic++ {
		targetBin := fundamentalBin * harmonic
		if targetBin >= len(features.Magnitude) {
			break
		}

		peakBin := -1
		maxMag := 0.0
		for offset := -3; offset <= 3; offset++ {
			bin := targetBin + offset
			if bin >= 0 && bin < len(features.Magnitude) &&
				features.Magnitude[bin] > maxMag && isSpectralPeak(features.Magnitude, bin) {
				maxMag = features.Magnitude[bin]
				peakBin = bin
			}
		}

		if peakBin >= 0 {
			for offset := -2; offset <= 2; offset++ {
				if bin := peakBin + offset; bin >= 0 && bin < len(features.Magnitude) {
					harmonicBins[bin] = true
				}
			}
		}
	}

	var harmonicEnergy, noiseEnergy, totalEnergy float64
	for i, mag := range features.Magnitude {
		energy := mag * mag
		totalEnergy += energy
		if harmonicBins[i] {
			harmonicEnergy += energy
		} else {
			noiseEnergy += energy
		}
	}
	if totalEnergy <= 0 {
		return 0.0
	}

	hnr := harmonicEnergy / (noiseEnergy + 1e-10)
	return math.Tanh(hnr * 0.5)
}

type spectralPeak struct {
	bin       int
	magnitude float64
}

// FundamentalFrequency picks the fundamental from strong spectral peaks
// whose harmonics line up. Returns 0 when nothing periodic is found.
func (aa *AcousticnessAnalyzer) FundamentalFrequency(features audio.SpectralFeatures) float64 {
	if len(features.Magnitude) < 100 {
		return 0.0
	}

	var peaks []spectralPeak
	for i := 1; i < len(features.Magnitude)-1; i++ {
		if isSpectralPeak(features.Magnitude, i) && features.Magnitude[i] > 0.01 {
			peaks = append(peaks, spectralPeak{bin: i, magnitude: features.Magnitude[i]})
		}
	}
	if len(peaks) == 0 {
		return 0.0
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].magnitude > peaks[j].magnitude
	})

	maxPeaks := min(20, len(peaks))
	binResolution := (float64(features.SampleRate) / 2.0) / float64(len(features.Magnitude))

	bestFundamental := 0.0
	bestScore := 0.0

	for i := 0; i < maxPeaks && i < 5; i++ {
		candidateFreq := float64(peaks[i].bin) * binResolution
		if candidateFreq < 80.0 || candidateFreq > 2000.0 {
			continue
		}

		score := 0.0
		harmonicsFound := 0
		for h := 2; h <= 8; h++ {
			harmonicBin := int(candidateFreq * float64(h) / binResolution)
			for _, peak := range peaks {
				if absInt(peak.bin-harmonicBin) <= 3 {
					score += peak.magnitude / float64(h*h)
					harmonicsFound++
					break
				}
			}
		}

		if harmonicsFound >= 2 && score > bestScore {
			bestScore = score
			bestFundamental = candidateFreq
		}
	}

	return bestFundamental
}

// instrumentScore checks spectral range, transient shape and rolloff
// against acoustic instrument norms.
func (aa *AcousticnessAnalyzer) instrumentScore(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.SpectralCentroid > 1000.0 && features.SpectralCentroid < 4000.0 {
		score += 0.3
	}

	score += aa.envelope.AttackDecayScore(samples, sampleRate) * 0.4

	if features.SpectralRolloff < 8000.0 {
		score += 0.3
	}

	return math.Min(1.0, score)
}

// SyntheticElements scores markers of electronic production
func (aa *AcousticnessAnalyzer) SyntheticElements(features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.SpectralCentroid > 8000.0 {
		score += 0.3
	}
	if features.SpectralRolloff > 12000.0 {
		score += 0.4
	}
	if features.ZeroCrossingRate < 0.01 && features.SpectralCentroid > 2000.0 {
		score += 0.3
	}

	return math.Min(1.0, score)
}

// isSpectralPeak requires a strict local maximum over two neighbors on
// each side.
func isSpectralPeak(magnitude []float64, index int) bool {
	if index <= 0 || index >= len(magnitude)-1 {
		return false
	}
	for offset := 1; offset <= 2; offset++ {
		if index-offset >= 0 && magnitude[index] <= magnitude[index-offset] {
			return false
		}
		if index+offset < len(magnitude) && magnitude[index] <= magnitude[index+offset] {
			return false
		}
	}
	return true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
