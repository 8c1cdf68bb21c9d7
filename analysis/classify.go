package analysis

import (
	"strings"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// GenreClassifier maps the measured descriptors onto subgenre, era and
// cultural-context labels. The rules are ordered; the first match wins.
type GenreClassifier struct{}

// NewGenreClassifier creates a new genre classifier
func NewGenreClassifier() *GenreClassifier {
	return &GenreClassifier{}
}

// MaxSubgenres caps the subgenre list
const MaxSubgenres = 3

// Subgenres classifies the track into one to three subgenre labels
// from acousticness, energy, tempo and vocal content.
func (gc *GenreClassifier) Subgenres(r *Result) []string {
	var subgenres []string

	switch {
	// Electronic
	case r.Acousticness < 0.3 && r.Energy > 0.6:
		switch {
		case r.BPM >= 120.0 && r.BPM <= 135.0:
			if r.Danceability > 0.8 {
				subgenres = append(subgenres, "House")
			} else {
				subgenres = append(subgenres, "Electronic")
			}
		case r.BPM >= 160.0 && r.BPM <= 180.0:
			subgenres = append(subgenres, "Drum & Bass")
		case r.BPM >= 135.0 && r.BPM <= 155.0:
			subgenres = append(subgenres, "Trance")
		}

	// Rock
	case r.Acousticness > 0.3 && r.Acousticness < 0.7 && r.Energy > 0.5:
		switch {
		case r.Valence > 0.6:
			subgenres = append(subgenres, "Pop Rock")
		case r.Energy > 0.8:
			subgenres = append(subgenres, "Hard Rock")
		default:
			subgenres = append(subgenres, "Alternative Rock")
		}

	// Acoustic
	case r.Acousticness > 0.7:
		switch {
		case r.Energy < 0.4 && r.Valence > 0.5:
			subgenres = append(subgenres, "Folk")
		case r.Instrumentalness > 0.8:
			subgenres = append(subgenres, "Classical")
		default:
			subgenres = append(subgenres, "Acoustic")
		}

	// Hip-hop / rap
	case r.Speechiness > 0.6 && r.BPM >= 70.0 && r.BPM <= 140.0:
		if r.Energy > 0.7 {
			subgenres = append(subgenres, "Hip-Hop")
		} else {
			subgenres = append(subgenres, "Rap")
		}

	// Jazz
	case r.Acousticness > 0.6 && r.Instrumentalness > 0.5:
		if r.BPM >= 60.0 && r.BPM <= 120.0 {
			subgenres = append(subgenres, "Jazz")
		}
	}

	if len(subgenres) == 0 {
		switch {
		case r.Energy > 0.7:
			subgenres = append(subgenres, "High Energy")
		case r.Energy < 0.3:
			subgenres = append(subgenres, "Ambient")
		default:
			subgenres = append(subgenres, "Pop")
		}
	}

	if len(subgenres) > MaxSubgenres {
		subgenres = subgenres[:MaxSubgenres]
	}
	return subgenres
}

// Era places the production style in a decade from mastering loudness,
// acousticness and spectral fingerprints.
func (gc *GenreClassifier) Era(features audio.SpectralFeatures, r *Result) string {
	vintage := HasVintageCharacteristics(features)

	switch {
	// Loud modern mastering
	case r.Loudness > -8.0 && !vintage:
		if r.Acousticness < 0.3 && r.Energy > 0.7 {
			return "2010s"
		}
		return "2000s"

	// Alternative-rock-era production
	case r.Loudness > -15.0 && r.Acousticness > 0.4 && r.Acousticness < 0.8:
		if r.Energy > 0.6 && r.Valence < 0.6 {
			return "1990s"
		}

	// Digital reverb and synthesizers
	case r.Acousticness < 0.5 && r.Liveness > 0.3:
		if features.SpectralCentroid > 2000.0 {
			return "1980s"
		}

	// Analog warmth, moderate levels
	case r.Loudness < -18.0 && r.Acousticness > 0.5:
		return "1970s"

	case vintage && r.Loudness < -20.0:
		return "1960s"
	}

	return "2000s"
}

// CulturalContext guesses a musical tradition from rhythm, timbre and
// the already assigned subgenres.
func (gc *GenreClassifier) CulturalContext(r *Result) string {
	if r.Danceability > 0.8 && r.BPM >= 90.0 && r.BPM <= 130.0 {
		if r.Acousticness > 0.6 {
			return "Latin American traditional"
		}
		return "Latin fusion"
	}

	if r.TimeSignature != 4 && r.Danceability > 0.7 {
		return "African polyrhythmic traditions"
	}

	if r.Acousticness > 0.5 && r.Energy > 0.6 &&
		len(r.Subgenres) > 0 && strings.Contains(r.Subgenres[0], "Rock") {
		return "British rock tradition"
	}

	if r.Acousticness > 0.7 && r.Valence < 0.5 && r.BPM < 100.0 {
		return "American blues tradition"
	}

	if r.Acousticness < 0.2 && r.Energy > 0.8 {
		return "European electronic tradition"
	}

	if r.Valence > 0.7 && r.Energy > 0.6 && r.Acousticness < 0.6 {
		return "Asian pop influence"
	}

	return "Western popular music"
}

// ProductionTechniques describes the mastering fingerprint in words
func ProductionTechniques(features audio.SpectralFeatures) string {
	var techniques string

	if features.SpectralRolloff > 15000.0 {
		techniques += "Digital"
	} else if features.SpectralRolloff < 8000.0 {
		techniques += "Analog"
	}

	if features.ZeroCrossingRate > 0.1 {
		techniques += " Compressed"
	}

	return techniques
}

// InstrumentationPatterns labels the dominant instrument family
func InstrumentationPatterns(features audio.SpectralFeatures) string {
	if features.SpectralCentroid > 3000.0 && features.ZeroCrossingRate > 0.08 {
		return "Electronic instruments"
	}
	if features.SpectralCentroid > 1500.0 && features.SpectralCentroid < 3000.0 {
		return "Electric instruments"
	}
	return "Acoustic instruments"
}

// HasVintageCharacteristics flags the narrow, dark spectrum of older
// recordings.
func HasVintageCharacteristics(features audio.SpectralFeatures) bool {
	return features.SpectralRolloff < 10000.0 &&
		features.SpectralCentroid < 2000.0 &&
		features.ZeroCrossingRate < 0.05
}

// MoodAnalyzer maps energy and valence to mood labels and listening
// occasions.
type MoodAnalyzer struct{}

// NewMoodAnalyzer creates a new mood analyzer
func NewMoodAnalyzer() *MoodAnalyzer {
	return &MoodAnalyzer{}
}

// Mood maps the energy/valence quadrant to a descriptive label
func (ma *MoodAnalyzer) Mood(energy, valence float64) string {
	switch {
	case energy > 0.7 && valence > 0.7:
		return "Energetic, Joyful, Euphoric"
	case energy > 0.7 && valence > 0.4:
		return "Energetic, Uplifting"
	case energy > 0.7:
		return "Aggressive, Intense, Powerful"
	case energy > 0.4 && valence > 0.7:
		return "Happy, Upbeat"
	case energy > 0.4 && valence > 0.4:
		return "Positive, Moderate"
	case energy > 0.4:
		return "Serious, Focused"
	case valence > 0.6:
		return "Peaceful, Content, Relaxed"
	case valence > 0.3:
		return "Calm, Neutral"
	default:
		return "Sad, Melancholic, Contemplative"
	}
}

// MaxOccasions caps the occasion list
const MaxOccasions = 3

// Occasions suggests one to three listening contexts from tempo and
// energy.
func (ma *MoodAnalyzer) Occasions(bpm, energy float64) []string {
	var occasions []string

	switch {
	case bpm > 120.0 && energy > 0.7:
		occasions = append(occasions, "Party", "Workout")
		if bpm > 140.0 {
			occasions = append(occasions, "Dancing")
		} else {
			occasions = append(occasions, "Driving")
		}

	case bpm >= 90.0 && bpm <= 120.0 && energy >= 0.4 && energy <= 0.7:
		occasions = append(occasions, "Background", "Casual listening")
		if energy > 0.5 {
			occasions = append(occasions, "Driving")
		} else {
			occasions = append(occasions, "Coffee shop")
		}

	case bpm < 90.0 && energy < 0.4:
		occasions = append(occasions, "Study", "Relaxation", "Meditation")

	case energy > 0.6:
		occasions = append(occasions, "Gym", "Motivation")

	default:
		occasions = append(occasions, "General listening", "Background")
	}

	if len(occasions) > MaxOccasions {
		occasions = occasions[:MaxOccasions]
	}
	return occasions
}
