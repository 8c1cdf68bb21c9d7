package loudness

import (
	"math"

	"github.com/harmonia-audio/harmonia/algorithms/audio"
)

// Dynamic range under this many dB reads as heavy compression
const compressionThresholdDB = 15.0

// DynamicRangeDB measures the spread between the loudest and softest
// 100 ms RMS windows in dB. Returns 0 for signals shorter than one
// window.
func DynamicRangeDB(samples []float64, sampleRate int) float64 {
	windowSize := int(0.1 * float64(sampleRate))
	if windowSize <= 0 {
		return 0.0
	}

	rmsValues := audio.WindowedRMS(samples, windowSize, windowSize)
	if len(rmsValues) == 0 {
		return 0.0
	}

	maxRMS, minRMS := rmsValues[0], rmsValues[0]
	for _, v := range rmsValues {
		if v > maxRMS {
			maxRMS = v
		}
		if v < minRMS {
			minRMS = v
		}
	}
	if maxRMS == 0 {
		return 0.0
	}

	return 20.0 * math.Log10(maxRMS/(minRMS+1e-10))
}

// IsCompressed reports whether the dynamic range suggests limiting or
// heavy compression.
func IsCompressed(samples []float64, sampleRate int) bool {
	windowSize := int(0.1 * float64(sampleRate))
	if windowSize <= 0 || len(samples) < windowSize {
		return false
	}
	return DynamicRangeDB(samples, sampleRate) < compressionThresholdDB
}
