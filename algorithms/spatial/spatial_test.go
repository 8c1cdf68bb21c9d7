package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// decayTone builds silence followed by an exponentially decaying tone,
// shaped so the amplitude drops 60 dB over rt60 seconds.
func decayTone(rt60 float64, onsetSec, durationSec float64, sampleRate int) []float64 {
	samples := make([]float64, int(durationSec*float64(sampleRate)))
	onset := int(onsetSec * float64(sampleRate))

	for i := onset; i < len(samples); i++ {
		t := float64(i-onset) / float64(sampleRate)
		amp := 0.9 * math.Pow(10, -3.0*t/rt60)
		samples[i] = amp * math.Sin(2*math.Pi*1000*t)
	}
	return samples
}

func TestRT60EstimateSilenceFallsBack(t *testing.T) {
	re := NewRT60Estimator()

	assert.Equal(t, DefaultRT60, re.Estimate(make([]float64, 44100), 44100))
	assert.Equal(t, DefaultRT60, re.Estimate(nil, 44100))
	assert.Equal(t, DefaultRT60, re.Estimate(make([]float64, 100), 0))
}

func TestRT60EstimateDecayingImpulse(t *testing.T) {
	const sampleRate = 44100
	samples := decayTone(0.6, 0.5, 3.0, sampleRate)

	rt60 := NewRT60Estimator().Estimate(samples, sampleRate)
	assert.Greater(t, rt60, 0.2)
	assert.Less(t, rt60, 1.5)
}

func TestRT60EstimateMediansAcrossImpulses(t *testing.T) {
	const sampleRate = 44100

	// Two impulses with different decay times; an even count must
	// average the middle estimates rather than take the larger one.
	samples := make([]float64, sampleRate*7)
	for _, impulse := range []struct{ onsetSec, rt60 float64 }{
		{0.5, 0.4},
		{3.5, 0.8},
	} {
		tone := decayTone(impulse.rt60, impulse.onsetSec, 7.0, sampleRate)
		onset := int(impulse.onsetSec * float64(sampleRate))
		end := min(len(samples), onset+sampleRate*2)
		for i := onset; i < end; i++ {
			samples[i] += tone[i]
		}
	}

	rt60 := NewRT60Estimator().Estimate(samples, sampleRate)
	assert.InDelta(t, 0.6, rt60, 0.15)
}

func TestDetectImpulses(t *testing.T) {
	const sampleRate = 44100
	re := NewRT60Estimator()

	// A single loud 10 ms burst in otherwise quiet noise
	samples := make([]float64, sampleRate*3)
	for i := range samples {
		samples[i] = 0.001 * math.Sin(2*math.Pi*100*float64(i)/float64(sampleRate))
	}
	burst := sampleRate
	for i := 0; i < sampleRate/100; i++ {
		samples[burst+i] = 0.9 * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
	}

	impulses := re.DetectImpulses(samples, sampleRate)
	require.NotEmpty(t, impulses)
	assert.InDelta(t, float64(burst), float64(impulses[0]), float64(sampleRate)*0.05)

	assert.Empty(t, re.DetectImpulses(make([]float64, 100), 44100))
}

func TestLivenessSilenceIsLow(t *testing.T) {
	const sampleRate = 44100
	silent := make([]float64, sampleRate)
	features := audio.NewSpectralAnalyzer().Compute(silent, sampleRate)

	liveness := NewLivenessDetector().Compute(silent, sampleRate, features)
	assert.GreaterOrEqual(t, liveness, 0.0)
	assert.Less(t, liveness, 0.2)
}

func TestLivenessBoundsOnTone(t *testing.T) {
	const sampleRate = 44100
	tone := make([]float64, sampleRate)
	for i := range tone {
		tone[i] = 0.8 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}
	features := audio.NewSpectralAnalyzer().Compute(tone, sampleRate)

	liveness := NewLivenessDetector().Compute(tone, sampleRate, features)
	assert.GreaterOrEqual(t, liveness, 0.0)
	assert.LessOrEqual(t, liveness, 1.0)
}

func TestBackgroundNoiseTiers(t *testing.T) {
	const sampleRate = 44100
	ld := NewLivenessDetector()

	// Constant low-level noise sits in the 0.02..0.05 RMS tier
	noisy := make([]float64, sampleRate)
	for i := range noisy {
		noisy[i] = 0.04
	}
	assert.Equal(t, 0.5, ld.BackgroundNoise(noisy, sampleRate))

	assert.Equal(t, 0.1, ld.BackgroundNoise(make([]float64, sampleRate), sampleRate))
	assert.Equal(t, 0.0, ld.BackgroundNoise(nil, sampleRate))
}

func TestReverbScoreVenueTiers(t *testing.T) {
	ld := NewLivenessDetector()

	// Silence measures the default RT60 and lands in the dry-studio tier
	assert.Equal(t, 0.1, ld.ReverbScore(make([]float64, 44100), 44100))
}

func TestCrowdNoise(t *testing.T) {
	ld := NewLivenessDetector()

	assert.Equal(t, 0.0, ld.CrowdNoise(audio.SpectralFeatures{}))

	crowdy := audio.SpectralFeatures{
		SpectralCentroid: 1000,
		SpectralRolloff:  4000,
		ZeroCrossingRate: 0.1,
	}
	assert.Equal(t, 1.0, ld.CrowdNoise(crowdy))
}
