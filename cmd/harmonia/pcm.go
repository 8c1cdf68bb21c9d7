package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Raw PCM sample formats the CLI accepts, all little-endian mono
const (
	formatS16LE = "s16le"
	formatF32LE = "f32le"
	formatF64LE = "f64le"
)

// readPCM decodes a raw little-endian PCM stream into float64 samples
// in [-1, 1]. Trailing bytes that do not fill a whole sample are
// dropped.
func readPCM(r io.Reader, format string) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	switch format {
	case formatS16LE:
		return decodeS16LE(data), nil
	case formatF32LE:
		return decodeF32LE(data), nil
	case formatF64LE:
		return decodeF64LE(data), nil
	default:
		return nil, fmt.Errorf("unsupported sample format %q (want %s, %s or %s)",
			format, formatS16LE, formatF32LE, formatF64LE)
	}
}

func decodeS16LE(data []byte) []float64 {
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples
}

func decodeF32LE(data []byte) []float64 {
	samples := make([]float64, len(data)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = float64(math.Float32frombits(bits))
	}
	return samples
}

func decodeF64LE(data []byte) []float64 {
	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
