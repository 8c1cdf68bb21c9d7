package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufferedLogger routes both streams into buffers for inspection
func bufferedLogger(level Level) (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	logger := &DefaultLogger{
		stdoutLogger: log.New(&stdout, "", 0),
		stderrLogger: log.New(&stderr, "", 0),
		level:        level,
		fields:       make(Fields),
	}
	return logger, &stdout, &stderr
}

func TestFieldsRenderSortedAndDeterministic(t *testing.T) {
	logger, stdout, _ := bufferedLogger(DebugLevel)

	logger.Info("stage done", Fields{"bpm": 120, "analyzed": true})
	assert.Equal(t, "[INFO] stage done analyzed=true bpm=120\n", stdout.String())

	stdout.Reset()
	logger.Info("stage done", Fields{"bpm": 120, "analyzed": true})
	assert.Equal(t, "[INFO] stage done analyzed=true bpm=120\n", stdout.String())
}

func TestErrorRendersAsField(t *testing.T) {
	logger, _, stderr := bufferedLogger(DebugLevel)

	logger.Error(errors.New("boom"), "stage failed")
	assert.Equal(t, "[ERROR] stage failed error=boom\n", stderr.String())
}

func TestLevelFiltering(t *testing.T) {
	logger, stdout, stderr := bufferedLogger(WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, stdout.String())

	logger.Warn("shown")
	assert.Equal(t, "[WARN] shown\n", stderr.String())
}

func TestWithFieldsInheritsAndOverrides(t *testing.T) {
	logger, stdout, _ := bufferedLogger(DebugLevel)

	derived := logger.WithFields(Fields{"stage": "tempo", "pass": 1})
	derived.WithFields(Fields{"pass": 2}).Info("done")

	assert.Equal(t, "[INFO] done pass=2 stage=tempo\n", stdout.String())

	// The parent logger keeps its own field set
	stdout.Reset()
	logger.Info("done")
	assert.Equal(t, "[INFO] done\n", stdout.String())
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := ContextWithFields(context.Background(), Fields{"track": "a.pcm"})

	fields, ok := FieldsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, Fields{"track": "a.pcm"}, fields)

	_, ok = FieldsFromContext(context.Background())
	assert.False(t, ok)

	logger, stdout, _ := bufferedLogger(DebugLevel)
	logger.WithContext(ctx).Info("loaded")
	assert.Equal(t, "[INFO] loaded track=a.pcm\n", stdout.String())
}

func TestGlobalLoggerSwap(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())

	logger, _, _ := bufferedLogger(DebugLevel)
	SetGlobalLogger(logger)
	assert.Same(t, logger, GetGlobalLogger())
}
