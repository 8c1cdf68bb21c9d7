package analysis

import (
	"math"
	"sort"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
	"github.com/harmonia-audio/harmonia/algorithms/common"
	"github.com/harmonia-audio/harmonia/algorithms/rhythm"
)

// HAMMSVector is the seven-axis Harmonic Analysis of Music and
// Mood Similarity descriptor. Every axis lives in [0, 1].
type HAMMSVector struct {
	Harmonicity float64 `json:"harmonicity"`
	Melodicity  float64 `json:"melodicity"`
	Rhythmicity float64 `json:"rhythmicity"`
	Timbrality  float64 `json:"timbrality"`
	Dynamics    float64 `json:"dynamics"`
	Tonality    float64 `json:"tonality"`
	Temporality float64 `json:"temporality"`
}

// Axes returns the vector as an ordered array
func (v HAMMSVector) Axes() [7]float64 {
	return [7]float64{
		v.Harmonicity, v.Melodicity, v.Rhythmicity, v.Timbrality,
		v.Dynamics, v.Tonality, v.Temporality,
	}
}

// Similarity returns 1 minus the RMS distance between two vectors.
// Identical vectors score 1; maximally distant vectors score 0.
func (v HAMMSVector) Similarity(other HAMMSVector) float64 {
	a, b := v.Axes(), other.Axes()

	var sumSq float64
	for i := range a {
		d := a[i] - b[i]
		sumSq += d * d
	}

	return 1.0 - math.Sqrt(sumSq/float64(len(a)))
}

// HAMMSAnalyzer computes the seven HAMMS axes
type HAMMSAnalyzer struct {
	spectral *audio.SpectralAnalyzer
	chroma   *audio.ChromaAnalyzer
	tempo    *rhythm.TempoEstimator
}

// NewHAMMSAnalyzer creates a new HAMMS analyzer
func NewHAMMSAnalyzer() *HAMMSAnalyzer {
	return &HAMMSAnalyzer{
		spectral: audio.NewSpectralAnalyzer(),
		chroma:   audio.NewChromaAnalyzer(),
		tempo:    rhythm.NewTempoEstimator(),
	}
}

// Compute derives the HAMMS vector. Whole-signal spectral features,
// chroma, onsets and beats are passed in so they are computed once per
// analysis run; the windowed views each axis needs are computed here.
func (ha *HAMMSAnalyzer) Compute(samples []float64, sampleRate int, features audio.SpectralFeatures, chroma audio.ChromaVector, onsets rhythm.Onsets, beats rhythm.Beats) HAMMSVector {
	return HAMMSVector{
		Harmonicity: ha.Harmonicity(features),
		Melodicity:  ha.Melodicity(samples, sampleRate),
		Rhythmicity: ha.Rhythmicity(onsets),
		Timbrality:  ha.Timbrality(samples, sampleRate, features),
		Dynamics:    ha.Dynamics(samples, sampleRate),
		Tonality:    ha.Tonality(samples, sampleRate, chroma),
		Temporality: ha.Temporality(samples, sampleRate, beats),
	}
}

// Harmonicity blends a harmonic-to-noise estimate with the presence of
// a harmonic peak series in the spectrum.
func (ha *HAMMSAnalyzer) Harmonicity(features audio.SpectralFeatures) float64 {
	hnr := harmonicToNoiseRatio(features)
	series := harmonicSeriesScore(features.Magnitude)
	return 0.6*hnr + 0.4*series
}

// harmonicToNoiseRatio measures the share of spectral energy near
// multiples of an assumed 100 Hz fundamental.
func harmonicToNoiseRatio(features audio.SpectralFeatures) float64 {
	const fundamental = 100.0

	var harmonicEnergy, totalEnergy float64
	for i, mag := range features.Magnitude {
		totalEnergy += mag * mag

		freq := features.Frequencies[i]
		for harmonic := 1; harmonic <= 10; harmonic++ {
			if math.Abs(freq-fundamental*float64(harmonic)) < 20.0 {
				harmonicEnergy += mag * mag
				break
			}
		}
	}

	if totalEnergy <= 0 {
		return 0.0
	}
	return harmonicEnergy / totalEnergy
}

// harmonicSeriesScore checks whether the spectral peaks sit at integer
// ratios of the lowest peak.
func harmonicSeriesScore(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	var peaks []float64
	for i := 1; i < len(spectrum)-1; i++ {
		if spectrum[i] > spectrum[i-1] && spectrum[i] > spectrum[i+1] {
			peaks = append(peaks, float64(i))
		}
	}
	if len(peaks) < 2 {
		return 0.0
	}

	score := 0.0
	fundamental := peaks[0]
	for i := 1; i < len(peaks) && i < 5; i++ {
		ratio := peaks[i] / fundamental
		deviation := math.Abs(ratio - math.Round(ratio))
		if deviation < 0.1 {
			score += 1.0 - deviation
		}
	}

	return math.Min(1.0, score/4.0)
}

const (
	melodicWindowSize = 2048
	melodicHopSize    = melodicWindowSize / 2
)

// Melodicity scores pitch movement: a rough autocorrelation pitch
// contour whose average step size is normalized against 1 kHz.
func (ha *HAMMSAnalyzer) Melodicity(samples []float64, sampleRate int) float64 {
	contour := melodicContour(samples, sampleRate)
	if len(contour) < 2 {
		return 0.0
	}

	totalVariation := 0.0
	for i := 1; i < len(contour); i++ {
		totalVariation += math.Abs(contour[i] - contour[i-1])
	}
	avgVariation := totalVariation / float64(len(contour))

	return math.Min(1.0, avgVariation/1000.0)
}

func melodicContour(samples []float64, sampleRate int) []float64 {
	var pitches []float64

	for start := 0; start+melodicWindowSize < len(samples); start += melodicHopSize {
		window := samples[start : start+melodicWindowSize]

		maxCorr := 0.0
		bestLag := 0
		for lag := 20; lag < melodicWindowSize/2; lag++ {
			corr := 0.0
			for j := 0; j < melodicWindowSize-lag; j++ {
				corr += window[j] * window[j+lag]
			}
			if corr > maxCorr {
				maxCorr = corr
				bestLag = lag
			}
		}

		if bestLag > 0 {
			pitches = append(pitches, float64(sampleRate)/float64(bestLag))
		}
	}

	return pitches
}

// Rhythmicity inverts onset regularity: irregular onset timing reads
// as rhythmically complex. Fewer than three onsets score 1.
func (ha *HAMMSAnalyzer) Rhythmicity(onsets rhythm.Onsets) float64 {
	if len(onsets.Times) < 3 {
		return 1.0
	}

	intervals := onsets.Intervals()
	mean := common.Mean(intervals)
	if mean <= 0 {
		return 1.0
	}
	cv := common.StdDev(intervals) / mean

	return 1.0 - math.Exp(-cv)
}

// Timbrality blends spectral entropy with the variation of the
// spectral centroid over time.
func (ha *HAMMSAnalyzer) Timbrality(samples []float64, sampleRate int, features audio.SpectralFeatures) float64 {
	complexity := spectralEntropyScore(features.Magnitude)
	variation := ha.centroidVariation(samples, sampleRate)
	return 0.5*complexity + 0.5*variation
}

func spectralEntropyScore(magnitude []float64) float64 {
	var totalEnergy float64
	for _, mag := range magnitude {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0.0
	}

	entropy := 0.0
	for _, mag := range magnitude {
		p := (mag * mag) / totalEnergy
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}

	return math.Min(1.0, entropy/10.0)
}

func (ha *HAMMSAnalyzer) centroidVariation(samples []float64, sampleRate int) float64 {
	var centroids []float64
	for start := 0; start+melodicWindowSize < len(samples); start += melodicHopSize {
		windowFeatures := ha.spectral.Compute(samples[start:start+melodicWindowSize], sampleRate)
		centroids = append(centroids, windowFeatures.SpectralCentroid)
	}
	if len(centroids) < 2 {
		return 0.0
	}

	return math.Min(1.0, common.StdDev(centroids)/5000.0)
}

// Dynamics blends the 10th-to-90th percentile RMS range with the rate
// of envelope change.
func (ha *HAMMSAnalyzer) Dynamics(samples []float64, sampleRate int) float64 {
	dynamicRange := percentileRMSRange(samples, sampleRate)

	const blockSize = 1024
	var envelope []float64
	for start := 0; start+blockSize < len(samples); start += blockSize {
		envelope = append(envelope, audio.RMS(samples[start:start+blockSize]))
	}
	variation := envelopeVariation(envelope)

	return 0.7*dynamicRange + 0.3*variation
}

func percentileRMSRange(samples []float64, sampleRate int) float64 {
	blockSize := sampleRate / 10
	if blockSize <= 0 {
		return 0.0
	}

	var rmsValues []float64
	for start := 0; start+blockSize < len(samples); start += blockSize {
		rms := audio.RMS(samples[start : start+blockSize])
		if rms > 0.001 {
			rmsValues = append(rmsValues, 20.0*math.Log10(rms))
		}
	}
	if len(rmsValues) == 0 {
		return 0.0
	}

	low := common.Percentile(rmsValues, 0.1)
	high := common.Percentile(rmsValues, 0.9)

	return math.Min(1.0, (high-low)/60.0)
}

func envelopeVariation(envelope []float64) float64 {
	if len(envelope) < 2 {
		return 0.0
	}

	totalChange := 0.0
	for i := 1; i < len(envelope); i++ {
		totalChange += math.Abs(envelope[i] - envelope[i-1])
	}
	avgChange := totalChange / float64(len(envelope))

	return math.Min(1.0, avgChange*10.0)
}

// Tonality blends tonal clarity (how much the top three pitch classes
// dominate) with key stability over two-second windows.
func (ha *HAMMSAnalyzer) Tonality(samples []float64, sampleRate int, chroma audio.ChromaVector) float64 {
	clarity := tonalClarity(chroma)
	stability := ha.keyStability(samples, sampleRate)
	return 0.6*clarity + 0.4*stability
}

func tonalClarity(chroma audio.ChromaVector) float64 {
	if chroma.Max() == 0 {
		return 0.0
	}

	sorted := make([]float64, 12)
	copy(sorted, chroma.Chroma[:])
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	topSum := sorted[0] + sorted[1] + sorted[2]
	var totalSum float64
	for _, v := range sorted {
		totalSum += v
	}

	if totalSum <= 0 {
		return 0.0
	}
	return topSum / totalSum
}

// keyStability correlates consecutive windowed chroma vectors. Signals
// too short for two windows count as fully stable.
func (ha *HAMMSAnalyzer) keyStability(samples []float64, sampleRate int) float64 {
	windowSize := sampleRate * 2
	hopSize := sampleRate
	if windowSize <= 0 {
		return 1.0
	}

	var sequence []audio.ChromaVector
	for start := 0; start+windowSize < len(samples); start += hopSize {
		sequence = append(sequence, ha.chroma.Compute(samples[start:start+windowSize], sampleRate))
	}
	if len(sequence) < 2 {
		return 1.0
	}

	totalCorrelation := 0.0
	for i := 1; i < len(sequence); i++ {
		correlation := 0.0
		for j := 0; j < 12; j++ {
			correlation += sequence[i].Chroma[j] * sequence[i-1].Chroma[j]
		}
		totalCorrelation += correlation
	}

	return totalCorrelation / float64(len(sequence)-1)
}

// Temporality blends tempo stability across ten-second segments with
// the consistency of the trimmed beat intervals.
func (ha *HAMMSAnalyzer) Temporality(samples []float64, sampleRate int, beats rhythm.Beats) float64 {
	stability := ha.tempoStability(samples, sampleRate)
	consistency := beatConsistency(beats)
	return 0.5*stability + 0.5*consistency
}

func (ha *HAMMSAnalyzer) tempoStability(samples []float64, sampleRate int) float64 {
	segmentLength := sampleRate * 10
	if segmentLength <= 0 {
		return 1.0
	}

	var tempos []float64
	for start := 0; start+segmentLength < len(samples); start += segmentLength / 2 {
		tempo := ha.tempo.Estimate(samples[start:start+segmentLength], sampleRate)
		if tempo > 0 {
			tempos = append(tempos, tempo)
		}
	}
	if len(tempos) < 2 {
		return 1.0
	}

	mean := common.Mean(tempos)
	if mean <= 0 {
		return 1.0
	}
	cv := common.StdDev(tempos) / mean

	return math.Exp(-cv * 10.0)
}

// beatConsistency trims 10% of intervals from each end to ignore tempo
// changes, then scores the remaining spread.
func beatConsistency(beats rhythm.Beats) float64 {
	if len(beats.Times) < 3 {
		return 1.0
	}

	intervals := beats.Intervals()
	sort.Float64s(intervals)
	trim := int(float64(len(intervals)) * 0.1)
	if len(intervals) > 2*trim {
		intervals = intervals[trim : len(intervals)-trim]
	}

	mean := common.Mean(intervals)
	if mean <= 0 {
		return 1.0
	}
	cv := common.StdDev(intervals) / mean

	return math.Exp(-cv * 20.0)
}
