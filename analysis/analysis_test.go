package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/loudness"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
)

func sineWave(freq float64, sampleRate, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return samples
}

// clickTrack places short bursts at a fixed interval
func clickTrack(bpm float64, sampleRate int, durationSec float64) []float64 {
	samples := make([]float64, int(durationSec*float64(sampleRate)))
	interval := int(60.0 / bpm * float64(sampleRate))

	for start := 0; start < len(samples); start += interval {
		for i := 0; i < 64 && start+i < len(samples); i++ {
			samples[start+i] = 1.0
		}
	}
	return samples
}

func assertComplete(t *testing.T, r Result) {
	t.Helper()

	for name, v := range map[string]float64{
		"acousticness":     r.Acousticness,
		"instrumentalness": r.Instrumentalness,
		"speechiness":      r.Speechiness,
		"liveness":         r.Liveness,
		"energy":           r.Energy,
		"danceability":     r.Danceability,
		"valence":          r.Valence,
		"confidence":       r.Confidence,
	} {
		assert.GreaterOrEqualf(t, v, 0.0, "%s below range", name)
		assert.LessOrEqualf(t, v, 1.0, "%s above range", name)
	}

	assert.GreaterOrEqual(t, r.BPM, 60.0)
	assert.LessOrEqual(t, r.BPM, 200.0)
	assert.GreaterOrEqual(t, r.Loudness, -70.0)
	assert.LessOrEqual(t, r.Loudness, 0.0)
	assert.GreaterOrEqual(t, r.TimeSignature, 3)
	assert.LessOrEqual(t, r.TimeSignature, 7)

	assert.NotEmpty(t, r.Characteristics)
	assert.LessOrEqual(t, len(r.Characteristics), 5)
	assert.NotEmpty(t, r.Subgenres)
	assert.LessOrEqual(t, len(r.Subgenres), 3)
	assert.NotEmpty(t, r.Occasion)
	assert.LessOrEqual(t, len(r.Occasion), 3)

	assert.NotEmpty(t, r.Key)
	assert.NotEmpty(t, r.Mode)
	assert.NotEmpty(t, r.Era)
	assert.NotEmpty(t, r.CulturalContext)
	assert.NotEmpty(t, r.Mood)

	for _, axis := range r.HAMMS.Axes() {
		assert.GreaterOrEqual(t, axis, 0.0)
		assert.LessOrEqual(t, axis, 1.0)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	const sampleRate = 44100
	result := Analyze(make([]float64, sampleRate*2), sampleRate)

	assert.True(t, result.Analyzed)
	assert.Equal(t, rhythm.DefaultBPM, result.BPM)
	assert.Equal(t, loudness.SilenceFloor, result.Loudness)
	assert.Equal(t, "C major", result.Key)
	assert.Equal(t, "Minor", result.Mode)
	assert.Equal(t, 4, result.TimeSignature)
	assert.Equal(t, []string{"Ambient"}, result.Subgenres)
	assert.Equal(t, []string{"General listening", "Background"}, result.Occasion)
	assert.Equal(t, "1960s", result.Era)
	assert.Equal(t, "Western popular music", result.CulturalContext)
	assert.Contains(t, result.Characteristics, "Dark")

	assertComplete(t, result)
}

func TestAnalyzeDetectsKeyOfTone(t *testing.T) {
	const sampleRate = 44100
	result := Analyze(sineWave(440, sampleRate, sampleRate*2), sampleRate)

	assert.True(t, result.Analyzed)
	assert.Equal(t, "A major", result.Key)

	// A lone tone has no formant pattern, so it cannot read as vocal
	assert.Greater(t, result.Instrumentalness, 0.7)

	assertComplete(t, result)
}

// chordProgression renders each chord as summed sine voices, one second
// per chord.
func chordProgression(chords [][]float64, sampleRate int) []float64 {
	samples := make([]float64, 0, len(chords)*sampleRate)
	for _, freqs := range chords {
		chord := make([]float64, sampleRate)
		for _, freq := range freqs {
			for i := range chord {
				chord[i] += math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) / float64(len(freqs))
			}
		}
		samples = append(samples, chord...)
	}
	return samples
}

func TestAnalyzeModeOfPopProgression(t *testing.T) {
	const sampleRate = 44100

	// C - Am - F - G. The aggregate chroma carries more minor-third
	// pairs (A-C, E-G, D-F, B-D) than major thirds, so the
	// third-interval mode rule reads Minor for this major-key
	// progression. The key detector is the authority on tonal center.
	samples := chordProgression([][]float64{
		{261.63, 329.63, 392.00},
		{220.00, 261.63, 329.63},
		{349.23, 440.00, 523.25},
		{392.00, 493.88, 587.33},
	}, sampleRate)

	result := Analyze(samples, sampleRate)
	assert.True(t, result.Analyzed)
	assert.Equal(t, "Minor", result.Mode)
	assertComplete(t, result)
}

func TestAnalyzeClickTrack(t *testing.T) {
	const sampleRate = 44100
	result := Analyze(clickTrack(120, sampleRate, 10), sampleRate)

	assert.True(t, result.Analyzed)
	assert.InDelta(t, 120.0, result.BPM, 10.0)
	assertComplete(t, result)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	const sampleRate = 44100
	samples := clickTrack(100, sampleRate, 6)
	tone := sineWave(330, sampleRate, len(samples))
	for i := range samples {
		samples[i] = 0.5*samples[i] + 0.3*tone[i]
	}

	a := NewAnalyzer()
	first := a.Analyze(samples, sampleRate)
	second := a.Analyze(samples, sampleRate)

	assert.Equal(t, first, second)
}

func TestAnalyzeDegenerateInputNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() { Analyze(nil, 44100) })
	assert.NotPanics(t, func() { Analyze(nil, 0) })
	assert.NotPanics(t, func() { Analyze(make([]float64, 16), 0) })

	result := Analyze(nil, 44100)
	assert.Equal(t, rhythm.DefaultBPM, result.BPM)
	assert.Equal(t, loudness.SilenceFloor, result.Loudness)
}

func TestAnalyzeMaxDurationTruncates(t *testing.T) {
	const sampleRate = 44100
	a := NewAnalyzerWithConfig(Config{Preprocess: true, MaxDurationSec: 2.0})

	// Only the first two seconds feed the analysis; a later tone change
	// must not influence the detected key.
	samples := append(
		sineWave(440, sampleRate, sampleRate*2),
		sineWave(261.63, sampleRate, sampleRate*4)...)

	result := a.Analyze(samples, sampleRate)
	assert.Equal(t, "A major", result.Key)
}

func TestHAMMSSimilarity(t *testing.T) {
	v := HAMMSVector{
		Harmonicity: 0.3, Melodicity: 0.5, Rhythmicity: 0.7,
		Timbrality: 0.2, Dynamics: 0.9, Tonality: 0.4, Temporality: 0.6,
	}

	assert.InDelta(t, 1.0, v.Similarity(v), 1e-12)

	var zero, one HAMMSVector
	one = HAMMSVector{1, 1, 1, 1, 1, 1, 1}
	assert.InDelta(t, 0.0, zero.Similarity(one), 1e-12)

	other := HAMMSVector{0.4, 0.4, 0.6, 0.3, 0.8, 0.5, 0.5}
	assert.InDelta(t, v.Similarity(other), other.Similarity(v), 1e-12)
}

func TestDefaultResult(t *testing.T) {
	r := DefaultResult()

	assert.False(t, r.Analyzed)
	assert.Equal(t, 0.0, r.Confidence)
	assert.Equal(t, 4, r.TimeSignature)
	assert.NotNil(t, r.Characteristics)
	assert.Empty(t, r.Characteristics)
	assert.NotNil(t, r.Subgenres)
	assert.NotNil(t, r.Occasion)
}

func TestResultJSONFieldNames(t *testing.T) {
	r := DefaultResult()
	out, err := r.JSON()
	require.NoError(t, err)

	for _, field := range []string{
		`"key"`, `"bpm"`, `"loudness"`, `"time_signature"`,
		`"cultural_context"`, `"hamms"`, `"confidence"`, `"analyzed"`,
	} {
		assert.Contains(t, out, field)
	}
}

func TestIsMajorKey(t *testing.T) {
	r := Result{Key: "A major"}
	assert.True(t, r.IsMajorKey())

	r.Key = "F# minor"
	assert.False(t, r.IsMajorKey())
}

func TestSubgenreRules(t *testing.T) {
	gc := NewGenreClassifier()

	house := Result{Acousticness: 0.2, Energy: 0.7, BPM: 125, Danceability: 0.9}
	assert.Equal(t, []string{"House"}, gc.Subgenres(&house))

	dnb := Result{Acousticness: 0.2, Energy: 0.7, BPM: 170}
	assert.Equal(t, []string{"Drum & Bass"}, gc.Subgenres(&dnb))

	folk := Result{Acousticness: 0.8, Energy: 0.3, Valence: 0.6}
	assert.Equal(t, []string{"Folk"}, gc.Subgenres(&folk))

	rap := Result{Acousticness: 0.3, Energy: 0.5, Speechiness: 0.7, BPM: 90}
	assert.Equal(t, []string{"Rap"}, gc.Subgenres(&rap))

	ambient := Result{}
	assert.Equal(t, []string{"Ambient"}, gc.Subgenres(&ambient))
}

func TestEraRules(t *testing.T) {
	gc := NewGenreClassifier()
	modern := audio.SpectralFeatures{SpectralCentroid: 3000, SpectralRolloff: 16000, ZeroCrossingRate: 0.1}

	r := Result{Loudness: -5, Acousticness: 0.2, Energy: 0.8}
	assert.Equal(t, "2010s", gc.Era(modern, &r))

	r = Result{Loudness: -20, Acousticness: 0.6}
	assert.Equal(t, "1970s", gc.Era(modern, &r))

	vintage := audio.SpectralFeatures{SpectralCentroid: 1000, SpectralRolloff: 5000, ZeroCrossingRate: 0.01}
	r = Result{Loudness: -25, Acousticness: 0.3}
	assert.Equal(t, "1960s", gc.Era(vintage, &r))
}

func TestCulturalContextRules(t *testing.T) {
	gc := NewGenreClassifier()

	latin := Result{Danceability: 0.9, BPM: 100, Acousticness: 0.2}
	assert.Equal(t, "Latin fusion", gc.CulturalContext(&latin))

	african := Result{TimeSignature: 3, Danceability: 0.75, BPM: 140}
	assert.Equal(t, "African polyrhythmic traditions", gc.CulturalContext(&african))

	rock := Result{Acousticness: 0.6, Energy: 0.7, TimeSignature: 4, Subgenres: []string{"Hard Rock"}}
	assert.Equal(t, "British rock tradition", gc.CulturalContext(&rock))

	plain := Result{TimeSignature: 4}
	assert.Equal(t, "Western popular music", gc.CulturalContext(&plain))
}

func TestMoodQuadrants(t *testing.T) {
	ma := NewMoodAnalyzer()

	assert.Equal(t, "Energetic, Joyful, Euphoric", ma.Mood(0.8, 0.8))
	assert.Equal(t, "Aggressive, Intense, Powerful", ma.Mood(0.8, 0.2))
	assert.Equal(t, "Positive, Moderate", ma.Mood(0.5, 0.5))
	assert.Equal(t, "Peaceful, Content, Relaxed", ma.Mood(0.2, 0.7))
	assert.Equal(t, "Sad, Melancholic, Contemplative", ma.Mood(0.1, 0.1))
}

func TestOccasions(t *testing.T) {
	ma := NewMoodAnalyzer()

	assert.Equal(t, []string{"Party", "Workout", "Driving"}, ma.Occasions(130, 0.8))
	assert.Equal(t, []string{"Party", "Workout", "Dancing"}, ma.Occasions(150, 0.8))
	assert.Equal(t, []string{"Study", "Relaxation", "Meditation"}, ma.Occasions(80, 0.2))
	assert.Equal(t, []string{"General listening", "Background"}, ma.Occasions(120, 0.1))

	for _, bpm := range []float64{60, 100, 140, 200} {
		for _, energy := range []float64{0.1, 0.5, 0.9} {
			occasions := ma.Occasions(bpm, energy)
			assert.NotEmpty(t, occasions)
			assert.LessOrEqual(t, len(occasions), MaxOccasions)
		}
	}
}

func TestConfidenceConsistencyNeutralWithoutValidations(t *testing.T) {
	cc := NewConfidenceCalculator()

	// A result with nothing to cross-check scores the neutral midpoint
	r := Result{Key: "C major", Mode: "Major"}
	score := cc.Consistency(&r)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestSNRSilenceReportsClean(t *testing.T) {
	assert.Equal(t, 60.0, SNR(make([]float64, 44100), 44100))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())

	err := Config{MaxDurationSec: -1}.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "max_duration_sec"))
}
