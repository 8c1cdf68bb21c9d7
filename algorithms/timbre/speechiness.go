package timbre

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
	"github.com/harmonia-audio/harmonia/algorithms/tonal"
)

// SpeechinessDetector estimates spoken-word presence from spectral
// speech markers, syllabic amplitude modulation and consonant energy.
// An alternate intonation path tracks pitch with YIN and scores the
// contour against speech-typical ranges.
type SpeechinessDetector struct {
	yin *tonal.YinDetector
}

// NewSpeechinessDetector creates a new speechiness detector
func NewSpeechinessDetector() *SpeechinessDetector {
	return &SpeechinessDetector{yin: tonal.NewYinDetector()}
}

// Compute returns speechiness in [0, 1]
func (sd *SpeechinessDetector) Compute(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	patterns := sd.SpeechPatterns(features)
	rhythmic := sd.RhythmicSpeech(samples, sampleRate)
	consonants := sd.Consonants(features)

	return patterns*0.4 + consonants*0.3 + rhythmic*0.3
}

// SpeechPatterns checks ZCR, centroid and rolloff against speech norms
func (sd *SpeechinessDetector) SpeechPatterns(features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.ZeroCrossingRate > 0.1 {
		score += 0.4
	}
	if features.SpectralCentroid > 1000.0 && features.SpectralCentroid < 3000.0 {
		score += 0.3
	}
	if features.SpectralRolloff > 3000.0 && features.SpectralRolloff < 8000.0 {
		score += 0.3
	}

	return math.Min(1.0, score)
}

// RhythmicSpeech measures the amplitude modulation rate over 20 ms
// windows; syllabic rates around 3-8 Hz read as speech.
func (sd *SpeechinessDetector) RhythmicSpeech(samples []float64, sampleRate int) float64 {
	windowSize := int(0.02 * float64(sampleRate))
	if windowSize < 2 {
		return 0.0
	}

	amplitudes := audio.WindowedRMS(samples, windowSize, windowSize/2)
	if len(amplitudes) < 3 {
		return 0.0
	}

	modulationCount := 0
	for i := 2; i < len(amplitudes); i++ {
		if (amplitudes[i] > amplitudes[i-1]) != (amplitudes[i-1] > amplitudes[i-2]) {
			modulationCount++
		}
	}

	modulationRate := float64(modulationCount) / float64(len(amplitudes))
	if modulationRate > 0.1 && modulationRate < 0.5 {
		return modulationRate * 2.0
	}
	return 0.0
}

// Consonants scores fricative and plosive markers
func (sd *SpeechinessDetector) Consonants(features audio.SpectralFeatures) float64 {
	score := 0.0

	if features.ZeroCrossingRate > 0.15 {
		score += 0.5
	}
	if features.SpectralCentroid > 2000.0 {
		score += 0.3
	}

	var highFreqEnergy, totalEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag
		if features.Frequencies[i] > 4000.0 {
			highFreqEnergy += mag
		}
	}
	if totalEnergy > 0 && highFreqEnergy/totalEnergy > 0.2 {
		score += 0.2
	}

	return math.Min(1.0, score)
}

// IntonationContours tracks pitch with YIN and scores the contour's
// range, change rate and prosody against speech-typical behavior.
func (sd *SpeechinessDetector) IntonationContours(samples []float64, sampleRate int) float64 {
	contour := sd.yin.Contour(samples, sampleRate)
	return scoreIntonation(contour)
}

func scoreIntonation(contour tonal.PitchContour) float64 {
	if len(contour.Pitches) == 0 {
		return 0.0
	}

	var voiced []float64
	for i, pitch := range contour.Pitches {
		if contour.Confidences[i] > 0.5 && pitch > 0 {
			voiced = append(voiced, pitch)
		}
	}
	if len(voiced) < 10 {
		return 0.0
	}

	meanPitch := common.Mean(voiced)
	semitones := make([]float64, len(voiced))
	for i, pitch := range voiced {
		semitones[i] = 12.0 * math.Log2(pitch/meanPitch)
	}

	minSt, maxSt := semitones[0], semitones[0]
	for _, st := range semitones {
		if st < minSt {
			minSt = st
		}
		if st > maxSt {
			maxSt = st
		}
	}
	pitchRange := maxSt - minSt

	totalChange := 0.0
	for i := 1; i < len(semitones); i++ {
		totalChange += math.Abs(semitones[i] - semitones[i-1])
	}
	changeRate := totalChange / float64(len(semitones)-1)

	score := 0.0
	if pitchRange >= 4.0 && pitchRange <= 12.0 {
		score += 0.4
	} else if pitchRange > 2.0 && pitchRange < 20.0 {
		score += 0.2
	}
	if changeRate >= 0.5 && changeRate <= 3.0 {
		score += 0.4
	} else if changeRate > 0.2 && changeRate < 5.0 {
		score += 0.2
	}

	score += prosodyScore(semitones) * 0.2

	return math.Min(1.0, score)
}

// prosodyScore checks phrase endings for the rising/falling contours
// that separate speech from melody.
func prosodyScore(semitones []float64) float64 {
	if len(semitones) < 20 {
		return 0.5
	}

	baseline := common.Mean(semitones)
	boundaries := []int{0}
	for i := 10; i < len(semitones)-10; i++ {
		if math.Abs(semitones[i]-baseline) < 1.0 && math.Abs(semitones[i-1]-baseline) > 2.0 {
			boundaries = append(boundaries, i)
		}
	}
	boundaries = append(boundaries, len(semitones)-1)

	endingScore := 0.0
	validPhrases := 0
	for i := 1; i < len(boundaries); i++ {
		start, end := boundaries[i-1], boundaries[i]
		if end-start > 5 {
			startPitch := semitones[start]
			endPitch := semitones[end]
			if endPitch < startPitch-2.0 {
				endingScore += 1.0 // declarative fall
			} else if endPitch > startPitch+2.0 {
				endingScore += 0.8 // interrogative rise
			}
			validPhrases++
		}
	}

	if validPhrases == 0 {
		return 0.5
	}
	return endingScore / float64(validPhrases)
}
