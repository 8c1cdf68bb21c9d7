package analysis

import (
	"fmt"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/loudness"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
	"github.com/harmonia-audio/harmonia/algorithms/spatial"
	"github.com/harmonia-audio/harmonia/algorithms/timbre"
	"github.com/harmonia-audio/harmonia/algorithms/tonal"
	"github.com/harmonia-audio/harmonia/logging"
)

// Analyzer runs every analysis stage over a signal and assembles the
// Result. It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	config Config

	spectral *audio.SpectralAnalyzer
	chroma   *audio.ChromaAnalyzer
	onsets   *rhythm.OnsetDetector
	tempo    *rhythm.TempoEstimator
	meter    *rhythm.MeterDetector
	dance    *rhythm.DanceabilityAnalyzer

	key     *tonal.KeyDetector
	mode    *tonal.ModeDetector
	valence *tonal.ValenceAnalyzer

	loudness *loudness.Analyzer
	energy   *loudness.EnergyAnalyzer

	acousticness     *timbre.AcousticnessAnalyzer
	instrumentalness *timbre.InstrumentalnessDetector
	speechiness      *timbre.SpeechinessDetector
	characteristics  *timbre.CharacteristicsExtractor

	liveness *spatial.LivenessDetector

	hamms      *HAMMSAnalyzer
	genre      *GenreClassifier
	mood       *MoodAnalyzer
	confidence *ConfidenceCalculator
}

// NewAnalyzer creates an analyzer with DefaultConfig
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with the given config
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{
		config:           config,
		spectral:         audio.NewSpectralAnalyzer(),
		chroma:           audio.NewChromaAnalyzer(),
		onsets:           rhythm.NewOnsetDetector(),
		tempo:            rhythm.NewTempoEstimator(),
		meter:            rhythm.NewMeterDetector(),
		dance:            rhythm.NewDanceabilityAnalyzer(),
		key:              tonal.NewKeyDetector(),
		mode:             tonal.NewModeDetector(),
		valence:          tonal.NewValenceAnalyzer(),
		loudness:         loudness.NewAnalyzer(),
		energy:           loudness.NewEnergyAnalyzer(),
		acousticness:     timbre.NewAcousticnessAnalyzer(),
		instrumentalness: timbre.NewInstrumentalnessDetector(),
		speechiness:      timbre.NewSpeechinessDetector(),
		characteristics:  timbre.NewCharacteristicsExtractor(),
		liveness:         spatial.NewLivenessDetector(),
		hamms:            NewHAMMSAnalyzer(),
		genre:            NewGenreClassifier(),
		mood:             NewMoodAnalyzer(),
		confidence:       NewConfidenceCalculator(),
	}
}

// Analyze runs the full pipeline. It always returns a complete Result:
// degenerate input falls through to each stage's documented fallback,
// and a panicking stage yields the default record with Analyzed=false
// and Confidence=0. Identical input always produces identical output.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) (result Result) {
	result = DefaultResult()

	defer func() {
		if r := recover(); r != nil {
			logging.Error(fmt.Errorf("%v", r), "analysis stage panicked")
			result = DefaultResult()
		}
	}()

	log := logging.WithFields(logging.Fields{
		"samples":     len(samples),
		"sample_rate": sampleRate,
	})
	log.Debug("starting analysis")

	samples = a.prepare(samples, sampleRate)

	// Shared intermediates, computed once
	features := a.spectral.Compute(samples, sampleRate)
	chroma := a.chroma.Compute(samples, sampleRate)
	onsets := a.onsets.Detect(samples, sampleRate)
	beats := rhythm.BeatsFromOnsets(onsets)

	result.Key = a.key.MatchTemplate(chroma)
	log.Debug("key detected", logging.Fields{"key": result.Key})

	result.BPM = a.tempo.EstimateFromOnsets(onsets)
	log.Debug("tempo estimated", logging.Fields{"bpm": result.BPM})

	result.Loudness = a.loudness.IntegratedLUFS(samples, sampleRate)
	log.Debug("loudness measured", logging.Fields{"lufs": result.Loudness})

	result.Acousticness = a.acousticness.Compute(samples, sampleRate, features)
	result.Instrumentalness = a.instrumentalness.Compute(features, chroma)
	result.Speechiness = a.speechiness.Compute(samples, sampleRate, features)
	result.Liveness = a.liveness.Compute(samples, sampleRate, features)
	result.Energy = a.energy.Compute(samples, sampleRate, features, onsets)
	result.Danceability = a.dance.Compute(beats, result.BPM)
	result.Valence = a.valence.Compute(chroma, features, result.BPM)
	log.Debug("descriptors scored", logging.Fields{
		"acousticness":     result.Acousticness,
		"instrumentalness": result.Instrumentalness,
		"speechiness":      result.Speechiness,
		"liveness":         result.Liveness,
		"energy":           result.Energy,
		"danceability":     result.Danceability,
		"valence":          result.Valence,
	})

	result.Mode = a.mode.Classify(chroma)
	result.TimeSignature = a.meter.Detect(beats)
	result.Characteristics = a.characteristics.Extract(samples, sampleRate, features, result.BPM, onsets, result.Liveness)

	result.HAMMS = a.hamms.Compute(samples, sampleRate, features, chroma, onsets, beats)

	result.Subgenres = a.genre.Subgenres(&result)
	result.Era = a.genre.Era(features, &result)
	result.CulturalContext = a.genre.CulturalContext(&result)
	result.Mood = a.mood.Mood(result.Energy, result.Valence)
	result.Occasion = a.mood.Occasions(result.BPM, result.Energy)
	log.Debug("classification complete", logging.Fields{
		"subgenres": result.Subgenres,
		"era":       result.Era,
		"mood":      result.Mood,
	})

	result.Confidence = a.confidence.Overall(samples, sampleRate, features, &result)
	result.Analyzed = true

	log.Debug("analysis complete", logging.Fields{"confidence": result.Confidence})
	return result
}

// prepare applies the configured input conditioning
func (a *Analyzer) prepare(samples []float64, sampleRate int) []float64 {
	if a.config.MaxDurationSec > 0 && sampleRate > 0 {
		maxSamples := int(a.config.MaxDurationSec * float64(sampleRate))
		if maxSamples > 0 && len(samples) > maxSamples {
			samples = samples[:maxSamples]
		}
	}

	if a.config.Preprocess {
		samples = audio.Preprocess(samples, sampleRate).Samples
	}

	return samples
}

// Analyze runs the default analyzer over a signal
func Analyze(samples []float64, sampleRate int) Result {
	return NewAnalyzer().Analyze(samples, sampleRate)
}
