package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq float64, sampleRate, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return samples
}

func TestFFTMagnitudeBins(t *testing.T) {
	fft := NewFFT()

	mags := fft.Magnitude(make([]float64, 1024))
	assert.Len(t, mags, 513)

	assert.Empty(t, fft.Magnitude(nil))
}

func TestFFTMagnitudePeakAtSineFrequency(t *testing.T) {
	const sampleRate = 1024

	// 64 Hz lands exactly on bin 64 for a 1024-sample window
	signal := sineWave(64, sampleRate, 1024)
	mags := NewFFT().Magnitude(signal)

	peakBin := 0
	for i, m := range mags {
		if m > mags[peakBin] {
			peakBin = i
		}
	}
	assert.Equal(t, 64, peakBin)
}

func TestBinFrequency(t *testing.T) {
	// 513 bins from a 1024-sample window at 44100 Hz
	assert.Equal(t, 0.0, BinFrequency(0, 513, 44100))
	assert.InDelta(t, 22050.0, BinFrequency(512, 513, 44100), 1e-9)
	assert.Equal(t, 0.0, BinFrequency(3, 1, 44100))
}

func TestHannWindowEndpoints(t *testing.T) {
	frame := []float64{1, 1, 1, 1, 1}
	HannWindow(frame)

	assert.InDelta(t, 0.0, frame[0], 1e-12)
	assert.InDelta(t, 1.0, frame[2], 1e-12)
	assert.InDelta(t, 0.0, frame[4], 1e-12)
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 1.0, RMS([]float64{1, -1, 1, -1}), 1e-12)
	assert.InDelta(t, 1.0/math.Sqrt2, RMS(sineWave(100, 44100, 44100)), 1e-3)
}

func TestWindowedRMS(t *testing.T) {
	signal := []float64{1, 1, 1, 1, 0, 0, 0, 0}

	values := WindowedRMS(signal, 4, 4)
	require.Len(t, values, 2)
	assert.InDelta(t, 1.0, values[0], 1e-12)
	assert.InDelta(t, 0.0, values[1], 1e-12)

	assert.Empty(t, WindowedRMS(signal, 0, 4))
	assert.Empty(t, WindowedRMS(nil, 4, 4))
}

func TestZeroCrossingRate(t *testing.T) {
	assert.Equal(t, 0.0, ZeroCrossingRate(nil))
	assert.Equal(t, 0.0, ZeroCrossingRate([]float64{1, 1, 1}))

	// Alternating signal crosses at every step
	rate := ZeroCrossingRate([]float64{1, -1, 1, -1})
	assert.InDelta(t, 0.75, rate, 1e-12)
}

func TestSpectralFeaturesOfSine(t *testing.T) {
	const sampleRate = 44100
	signal := sineWave(440, sampleRate, sampleRate)

	features := NewSpectralAnalyzer().Compute(signal, sampleRate)

	assert.InDelta(t, 440.0, features.SpectralCentroid, 25.0)
	assert.InDelta(t, 440.0, features.SpectralRolloff, 25.0)
	assert.Equal(t, sampleRate, features.SampleRate)
	assert.NotEmpty(t, features.Magnitude)
	assert.Len(t, features.Frequencies, len(features.Magnitude))
}

func TestSpectralFeaturesEmptyInput(t *testing.T) {
	features := NewSpectralAnalyzer().Compute(nil, 44100)

	assert.Zero(t, features.SpectralCentroid)
	assert.Zero(t, features.SpectralRolloff)
	assert.Zero(t, features.ZeroCrossingRate)
	assert.Empty(t, features.Magnitude)
}

func TestChromaOfConcertA(t *testing.T) {
	const sampleRate = 44100
	signal := sineWave(440, sampleRate, sampleRate)

	chroma := NewChromaAnalyzer().Compute(signal, sampleRate)

	// Pitch class 9 is A
	maxClass := 0
	for i, v := range chroma.Chroma {
		if v > chroma.Chroma[maxClass] {
			maxClass = i
		}
	}
	assert.Equal(t, 9, maxClass)

	var sum float64
	for _, v := range chroma.Chroma {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestChromaEmptyInput(t *testing.T) {
	chroma := NewChromaAnalyzer().Compute(nil, 44100)
	assert.Equal(t, 0.0, chroma.Max())
}

func TestNormalize(t *testing.T) {
	normalized := Normalize([]float64{0.5, -0.25})
	assert.Equal(t, []float64{1.0, -0.5}, normalized)

	silent := Normalize([]float64{0, 0})
	assert.Equal(t, []float64{0, 0}, silent)
}

func TestPreprocessRemovesDC(t *testing.T) {
	const sampleRate = 44100
	signal := make([]float64, sampleRate)
	for i := range signal {
		signal[i] = 0.5 + 0.25*math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}

	buf := Preprocess(signal, sampleRate)
	require.Len(t, buf.Samples, len(signal))

	// DC component should be mostly gone after the high-pass settles
	var mean float64
	for _, s := range buf.Samples[1000:] {
		mean += s
	}
	mean /= float64(len(buf.Samples) - 1000)
	assert.InDelta(t, 0.0, mean, 0.01)

	// Input must not be modified
	assert.Equal(t, 0.5, signal[0])
}

func TestBufferDuration(t *testing.T) {
	buf := NewBuffer(make([]float64, 22050), 44100)
	assert.InDelta(t, 0.5, buf.Duration(), 1e-12)

	assert.Equal(t, 0.0, Buffer{SampleRate: 0}.Duration())
}
