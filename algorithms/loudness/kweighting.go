// Package loudness implements ITU-R BS.1770 style loudness measurement:
// K-weighting pre-filtering, gated integrated loudness and dynamic range.
package loudness

import "math"

// Biquad is a direct form I second-order IIR section
type Biquad struct {
	A0, A1, A2 float64
	B1, B2     float64
}

// Process filters the signal and returns a new slice
func (bq *Biquad) Process(signal []float64) []float64 {
	output := make([]float64, len(signal))
	var x1, x2, y1, y2 float64

	for i, x0 := range signal {
		y0 := bq.A0*x0 + bq.A1*x1 + bq.A2*x2 - bq.B1*y1 - bq.B2*y2
		output[i] = y0

		x2, x1 = x1, x0
		y2, y1 = y1, y0
	}
	return output
}

// K-weighting stage parameters per BS.1770
const (
	preFilterFreq = 38.0
	preFilterQ    = 0.5

	shelfFreq   = 1681.0
	shelfGainDB = 3.999843
)

// KWeighting is the two-stage BS.1770 pre-filter: a high-pass that
// strips inaudible rumble and a high shelf modelling head diffraction.
// Coefficients are designed for a specific sample rate.
type KWeighting struct {
	highPass Biquad
	shelf    Biquad
}

// NewKWeighting designs the filter cascade for the given sample rate
// using bilinear-transform prototypes.
func NewKWeighting(sampleRate int) *KWeighting {
	kw := &KWeighting{}

	// Stage 1: Butterworth high-pass, fc = 38 Hz
	k := math.Tan(math.Pi * preFilterFreq / float64(sampleRate))
	norm := 1.0 / (1.0 + k/preFilterQ + k*k)
	kw.highPass = Biquad{
		A0: norm,
		A1: -2.0 * norm,
		A2: norm,
		B1: 2.0 * (k*k - 1.0) * norm,
		B2: (1.0 - k/preFilterQ + k*k) * norm,
	}

	// Stage 2: high shelf, fc = 1681 Hz
	g := math.Pow(10.0, shelfGainDB/20.0)
	k1 := math.Tan(math.Pi * shelfFreq / float64(sampleRate))
	v0 := math.Pow(10.0, g/20.0)
	root2 := math.Sqrt(2.0)

	norm1 := 1.0 / (1.0 + root2*k1 + k1*k1)
	kw.shelf = Biquad{
		A0: (v0 + root2*math.Sqrt(v0)*k1 + k1*k1) * norm1,
		A1: 2.0 * (k1*k1 - v0) * norm1,
		A2: (v0 - root2*math.Sqrt(v0)*k1 + k1*k1) * norm1,
		B1: 2.0 * (k1*k1 - 1.0) * norm1,
		B2: (1.0 - root2*k1 + k1*k1) * norm1,
	}

	return kw
}

// Apply runs the signal through both stages
func (kw *KWeighting) Apply(signal []float64) []float64 {
	return kw.shelf.Process(kw.highPass.Process(signal))
}
