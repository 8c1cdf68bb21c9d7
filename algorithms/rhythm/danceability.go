package rhythm

// DanceabilityAnalyzer blends beat strength, tempo suitability and
// rhythm regularity into a single [0, 1] score.
type DanceabilityAnalyzer struct{}

// NewDanceabilityAnalyzer creates a new danceability analyzer
func NewDanceabilityAnalyzer() *DanceabilityAnalyzer {
	return &DanceabilityAnalyzer{}
}

// Compute scores danceability from detected beats and the estimated BPM
func (da *DanceabilityAnalyzer) Compute(beats Beats, bpm float64) float64 {
	beatStrength := beats.Strength()
	tempoSuitability := TempoSuitability(bpm)
	regularity := beats.Regularity()

	return beatStrength*0.4 + tempoSuitability*0.3 + regularity*0.3
}

// TempoSuitability maps BPM onto how well it supports dancing
func TempoSuitability(bpm float64) float64 {
	switch {
	case bpm >= 90.0 && bpm <= 130.0:
		return 1.0 // optimal for most dancing
	case bpm > 130.0 && bpm <= 160.0:
		return 0.9 // high energy
	case bpm >= 70.0 && bpm < 90.0:
		return 0.6 // slow dancing
	case bpm > 160.0 && bpm <= 180.0:
		return 0.7 // very fast
	case bpm >= 60.0 && bpm < 70.0:
		return 0.3 // too slow
	case bpm > 180.0 && bpm <= 200.0:
		return 0.4 // too fast
	default:
		return 0.1
	}
}

// IsOptimalDanceTempo reports whether bpm sits in the prime dance range
func IsOptimalDanceTempo(bpm float64) bool {
	return bpm >= 90.0 && bpm <= 160.0
}
