package bt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionReturnsCallbackStatus(t *testing.T) {
	for _, st := range []Status{StatusSuccess, StatusFailure, StatusRunning} {
		a, err := NewAction("act", always(st))
		require.NoError(t, err)
		assert.Equal(t, StatusInvalid, a.Status())
		assert.Equal(t, st, a.Tick(nil))
		assert.Equal(t, st, a.Status())
		a.Reset()
		assert.Equal(t, StatusInvalid, a.Status())
	}
}

func TestConditionMapsBool(t *testing.T) {
	value := true
	c, err := NewCondition("cond", func(*TickContext) bool { return value })
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, c.Tick(nil))
	value = false
	assert.Equal(t, StatusFailure, c.Tick(nil))
	assert.Equal(t, KindCondition, c.Kind())
}

func TestConditionReadsContextValues(t *testing.T) {
	c := Must(NewCondition("enemy visible", func(ctx *TickContext) bool {
		v, ok := ctx.Value("enemy")
		return ok && v.(bool)
	}))
	assert.Equal(t, StatusFailure, c.Tick(nil))
	assert.Equal(t, StatusFailure, c.Tick(&TickContext{}))
	assert.Equal(t, StatusSuccess, c.Tick(&TickContext{Values: map[string]any{"enemy": true}}))
}

func TestNilCallbacksRejected(t *testing.T) {
	_, err := NewAction("a", nil)
	assert.ErrorIs(t, err, ErrNilCallback)
	_, err = NewCondition("c", nil)
	assert.ErrorIs(t, err, ErrNilCallback)
}

func TestWaitAccumulatesDelta(t *testing.T) {
	w, err := NewWait("wait", time.Second)
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, w.Tick(delta(400*time.Millisecond)))
	assert.Equal(t, StatusRunning, w.Tick(delta(400*time.Millisecond)))
	assert.Equal(t, 800*time.Millisecond, w.Elapsed())
	assert.Equal(t, StatusSuccess, w.Tick(delta(300*time.Millisecond)))
	assert.Zero(t, w.Elapsed())

	// next cycle starts from scratch
	assert.Equal(t, StatusRunning, w.Tick(delta(400*time.Millisecond)))
}

func TestWaitMissingDeltaCountsAsZero(t *testing.T) {
	w := Must(NewWait("wait", time.Millisecond))
	for i := 0; i < 5; i++ {
		assert.Equal(t, StatusRunning, w.Tick(nil))
	}
	assert.Equal(t, StatusRunning, w.Tick(&TickContext{}))
	assert.Equal(t, StatusSuccess, w.Tick(delta(time.Millisecond)))
}

func TestWaitZeroDurationSucceedsImmediately(t *testing.T) {
	w := Must(NewWait("now", 0))
	assert.Equal(t, StatusSuccess, w.Tick(nil))
}

func TestWaitResetClearsElapsed(t *testing.T) {
	w := Must(NewWait("wait", time.Second))
	w.Tick(delta(900 * time.Millisecond))
	w.Reset()
	assert.Zero(t, w.Elapsed())
	assert.Equal(t, StatusRunning, w.Tick(delta(900*time.Millisecond)))
}

func TestWaitRejectsNegativeDuration(t *testing.T) {
	_, err := NewWait("wait", -time.Second)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestActionPanicPropagates(t *testing.T) {
	a := Must(NewAction("explode", func(*TickContext) Status { panic("leaf failure") }))
	seq := Must(NewSequence("seq", Must(NewAction("ok", always(StatusSuccess))), a))
	assert.PanicsWithValue(t, "leaf failure", func() { seq.Tick(nil) })
	// no rollback: the sequence kept the progress it made before the panic
	assert.Equal(t, 1, seq.CurrentIndex())
}
