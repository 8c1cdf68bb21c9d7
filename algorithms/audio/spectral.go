package audio

// SpectralFeatures holds the global spectral descriptors of a signal
type SpectralFeatures struct {
	Magnitude        []float64 `json:"magnitude"`
	Frequencies      []float64 `json:"frequencies"`
	SpectralCentroid float64   `json:"spectral_centroid"`
	SpectralRolloff  float64   `json:"spectral_rolloff"`
	ZeroCrossingRate float64   `json:"zero_crossing_rate"`
	SampleRate       int       `json:"sample_rate"`
}

// SpectralAnalyzer computes magnitude spectra and derived features
// over a whole buffer.
type SpectralAnalyzer struct {
	fft *FFT
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer() *SpectralAnalyzer {
	return &SpectralAnalyzer{fft: NewFFT()}
}

const rolloffEnergyFraction = 0.85

// Compute calculates the magnitude spectrum, centroid, rolloff and ZCR
// of the full signal. Empty input yields zeroed features.
func (sa *SpectralAnalyzer) Compute(signal []float64, sampleRate int) SpectralFeatures {
	features := SpectralFeatures{
		Magnitude:   []float64{},
		Frequencies: []float64{},
		SampleRate:  sampleRate,
	}
	if len(signal) == 0 {
		return features
	}

	features.Magnitude = sa.fft.Magnitude(signal)
	numBins := len(features.Magnitude)
	features.Frequencies = make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		features.Frequencies[i] = BinFrequency(i, numBins, sampleRate)
	}

	// Centroid: magnitude-weighted mean frequency
	var numerator, denominator float64
	for i, mag := range features.Magnitude {
		numerator += features.Frequencies[i] * mag
		denominator += mag
	}
	if denominator > 0 {
		features.SpectralCentroid = numerator / denominator
	}

	// Rolloff: frequency below which 85% of the spectral energy sits
	var totalEnergy float64
	for _, mag := range features.Magnitude {
		totalEnergy += mag * mag
	}
	threshold := rolloffEnergyFraction * totalEnergy
	var cumulative float64
	for i, mag := range features.Magnitude {
		cumulative += mag * mag
		if cumulative >= threshold {
			features.SpectralRolloff = features.Frequencies[i]
			break
		}
	}

	features.ZeroCrossingRate = ZeroCrossingRate(signal)

	return features
}

// ZeroCrossingRate counts sign changes per sample
func ZeroCrossingRate(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	crossings := 0
	for i := 1; i < len(signal); i++ {
		if (signal[i] >= 0) != (signal[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(signal))
}
