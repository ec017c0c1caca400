package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.With(String("tree", "guard")).Info("tick",
		Int("depth", 2),
		Uint64("tick", 7),
		Duration("delta", 50*time.Millisecond),
		Bool("ok", true),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "tick", entries[0].Message)
	assert.Equal(t, "guard", ctx["tree"])
	assert.EqualValues(t, 2, ctx["depth"])
	assert.EqualValues(t, 7, ctx["tick"])
	assert.Equal(t, 50*time.Millisecond, ctx["delta"])
	assert.Equal(t, true, ctx["ok"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLevels(t *testing.T) {
	logger := NewNop()
	logger.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, logger.GetLevel())

	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestProvideReturnsProcessDefault(t *testing.T) {
	first := Provide()
	require.NotNil(t, first)
	assert.Same(t, first, Provide())
}
