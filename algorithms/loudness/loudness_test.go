package loudness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
)

func sineWave(freq, amplitude float64, sampleRate, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestIntegratedLUFSSilence(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, SilenceFloor, a.IntegratedLUFS(make([]float64, 44100), 44100))
	assert.Equal(t, SilenceFloor, a.IntegratedLUFS(nil, 44100))
	assert.Equal(t, SilenceFloor, a.IntegratedLUFS(make([]float64, 100), 0))
}

func TestIntegratedLUFSLouderIsHigher(t *testing.T) {
	const sampleRate = 44100
	a := NewAnalyzer()

	quiet := a.IntegratedLUFS(sineWave(1000, 0.01, sampleRate, sampleRate*2), sampleRate)
	loud := a.IntegratedLUFS(sineWave(1000, 0.5, sampleRate, sampleRate*2), sampleRate)

	assert.Greater(t, loud, quiet)
	assert.Less(t, loud, 0.0)
}

func TestIntegratedLUFSAmplitudeScaling(t *testing.T) {
	const sampleRate = 44100

	// Halving the amplitude should drop the level by about 6 dB
	a := NewAnalyzer()
	full := a.IntegratedLUFS(sineWave(1000, 0.8, sampleRate, sampleRate*2), sampleRate)
	half := a.IntegratedLUFS(sineWave(1000, 0.4, sampleRate, sampleRate*2), sampleRate)

	assert.InDelta(t, 6.02, full-half, 0.5)
}

func TestKWeightingFilterRuns(t *testing.T) {
	const sampleRate = 44100
	signal := sineWave(1000, 0.5, sampleRate, sampleRate)

	weighted := NewKWeighting(sampleRate).Apply(signal)
	assert.Len(t, weighted, len(signal))

	// A 1 kHz tone passes the K-weighting curve roughly unchanged
	ratio := audio.RMS(weighted) / audio.RMS(signal)
	assert.InDelta(t, 1.0, ratio, 0.35)
}

func TestDynamicRangeDB(t *testing.T) {
	const sampleRate = 44100

	// Constant-level sine has nearly zero dynamic range
	constant := sineWave(440, 0.5, sampleRate, sampleRate)
	assert.Less(t, DynamicRangeDB(constant, sampleRate), 3.0)

	// Alternating loud/quiet seconds has a large range
	varying := append(
		sineWave(440, 0.9, sampleRate, sampleRate),
		sineWave(440, 0.01, sampleRate, sampleRate)...)
	assert.Greater(t, DynamicRangeDB(varying, sampleRate), 20.0)

	assert.Equal(t, 0.0, DynamicRangeDB(nil, sampleRate))
}

func TestIsCompressed(t *testing.T) {
	const sampleRate = 44100

	assert.True(t, IsCompressed(sineWave(440, 0.5, sampleRate, sampleRate), sampleRate))

	varying := append(
		sineWave(440, 0.9, sampleRate, sampleRate),
		sineWave(440, 0.01, sampleRate, sampleRate)...)
	assert.False(t, IsCompressed(varying, sampleRate))

	// Too short to judge
	assert.False(t, IsCompressed(make([]float64, 10), sampleRate))
}

func TestEnergyBounds(t *testing.T) {
	const sampleRate = 44100
	ea := NewEnergyAnalyzer()

	silent := make([]float64, sampleRate)
	features := audio.NewSpectralAnalyzer().Compute(silent, sampleRate)
	energy := ea.Compute(silent, sampleRate, features, rhythm.Onsets{})
	assert.GreaterOrEqual(t, energy, 0.0)
	assert.Less(t, energy, 0.2)

	loud := sineWave(4000, 0.9, sampleRate, sampleRate)
	loudFeatures := audio.NewSpectralAnalyzer().Compute(loud, sampleRate)
	onsets := rhythm.Onsets{
		Times:     []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		Strengths: []float64{1, 1, 1, 1, 1, 1},
	}
	loudEnergy := ea.Compute(loud, sampleRate, loudFeatures, onsets)
	assert.Greater(t, loudEnergy, energy)
	assert.LessOrEqual(t, loudEnergy, 1.0)
}

func TestLoudnessEnergyBuckets(t *testing.T) {
	ea := NewEnergyAnalyzer()

	assert.Equal(t, 1.0, ea.LoudnessEnergy([]float64{0.9, -0.9, 0.9, -0.9}))
	assert.Equal(t, 0.1, ea.LoudnessEnergy(make([]float64, 100)))
}
