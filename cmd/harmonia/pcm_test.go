package main

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPCMS16LE(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []int16{0, 16384, -16384, 32767, -32768} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	// Trailing odd byte is dropped
	buf.WriteByte(0xFF)

	samples, err := readPCM(&buf, formatS16LE)
	require.NoError(t, err)
	require.Len(t, samples, 5)

	assert.Equal(t, 0.0, samples[0])
	assert.InDelta(t, 0.5, samples[1], 1e-12)
	assert.InDelta(t, -0.5, samples[2], 1e-12)
	assert.InDelta(t, 1.0, samples[3], 1e-4)
	assert.Equal(t, -1.0, samples[4])
}

func TestReadPCMF32LE(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []float32{0, 0.25, -0.75, 1.0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}

	samples, err := readPCM(&buf, formatF32LE)
	require.NoError(t, err)
	require.Len(t, samples, 4)

	assert.Equal(t, 0.0, samples[0])
	assert.InDelta(t, 0.25, samples[1], 1e-7)
	assert.InDelta(t, -0.75, samples[2], 1e-7)
	assert.Equal(t, 1.0, samples[3])
}

func TestReadPCMF64LE(t *testing.T) {
	var buf bytes.Buffer
	values := []float64{0, 0.123456789, -0.987654321}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))

	samples, err := readPCM(&buf, formatF64LE)
	require.NoError(t, err)
	assert.Equal(t, values, samples)
}

func TestReadPCMRejectsUnknownFormat(t *testing.T) {
	_, err := readPCM(bytes.NewReader(nil), "u8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "u8")
}

func TestReadPCMEmptyInput(t *testing.T) {
	samples, err := readPCM(bytes.NewReader(nil), formatF32LE)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
