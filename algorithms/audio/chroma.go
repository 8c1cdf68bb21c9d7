package audio

import "math"

// ChromaVector is a 12-bin pitch class profile, L1-normalized
type ChromaVector struct {
	Chroma [12]float64 `json:"chroma"`
}

// ChromaAnalyzer folds a magnitude spectrum into pitch classes
type ChromaAnalyzer struct {
	fft *FFT
}

// NewChromaAnalyzer creates a new chroma analyzer
func NewChromaAnalyzer() *ChromaAnalyzer {
	return &ChromaAnalyzer{fft: NewFFT()}
}

// Frequencies below this carry rumble, not pitch content
const chromaMinFrequency = 80.0

// Compute folds the full-signal spectrum into a normalized chroma vector.
// Each bin above 80 Hz maps to the nearest equal-tempered pitch class
// relative to A4 = 440 Hz.
func (ca *ChromaAnalyzer) Compute(signal []float64, sampleRate int) ChromaVector {
	var chroma ChromaVector
	if len(signal) == 0 {
		return chroma
	}

	magnitudes := ca.fft.Magnitude(signal)
	numBins := len(magnitudes)

	for i, mag := range magnitudes {
		frequency := BinFrequency(i, numBins, sampleRate)
		if frequency < chromaMinFrequency {
			continue
		}

		midiNote := 12.0*math.Log2(frequency/440.0) + 69.0
		pitchClass := int(math.Round(midiNote)) % 12
		if pitchClass < 0 {
			pitchClass += 12
		}
		chroma.Chroma[pitchClass] += mag
	}

	var sum float64
	for _, v := range chroma.Chroma {
		sum += v
	}
	if sum > 0 {
		for i := range chroma.Chroma {
			chroma.Chroma[i] /= sum
		}
	}

	return chroma
}

// Max returns the largest chroma bin value
func (cv ChromaVector) Max() float64 {
	maxVal := 0.0
	for _, v := range cv.Chroma {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
