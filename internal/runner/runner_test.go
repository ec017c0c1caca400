package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/zeusbt/internal/core/bt"
	"github.com/zeusync/zeusbt/internal/core/observability/log"
)

func newTree(t *testing.T, fn bt.ActionFunc) *bt.BehaviorTree {
	t.Helper()
	tree, err := bt.NewBuilder().
		Sequence("root").
		Action("work", fn).
		End().
		Build()
	require.NoError(t, err)
	return tree
}

func newRunner(t *testing.T, workers int) *Runner {
	t.Helper()
	r, err := New(Options{Interval: 5 * time.Millisecond, Workers: workers}, nil, nil)
	require.NoError(t, err)
	return r
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{Interval: 0, Workers: 1}, nil, nil)
	assert.Error(t, err)
	_, err = New(Options{Interval: time.Second, Workers: 0}, nil, nil)
	assert.Error(t, err)
}

func TestAddRemove(t *testing.T) {
	r := newRunner(t, 3)
	ok := func(*bt.TickContext) bt.Status { return bt.StatusSuccess }

	require.NoError(t, r.Add(NewAgent("a", newTree(t, ok))))
	require.NoError(t, r.Add(NewAgent("b", newTree(t, ok))))
	assert.ErrorIs(t, r.Add(NewAgent("a", newTree(t, ok))), ErrAgentExists)
	assert.ErrorIs(t, r.Add(NewAgent("", newTree(t, ok))), ErrEmptyAgentID)
	assert.ErrorIs(t, r.Add(NewAgent("c", nil)), ErrNilTree)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Metrics().agents))

	a, found := r.Agent("a")
	require.True(t, found)
	assert.Equal(t, "a", a.ID)

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.Equal(t, 1, r.Len())
}

func TestTickOncePassesDeltaAndValues(t *testing.T) {
	r := newRunner(t, 2)
	var got time.Duration
	var seen any
	tree := newTree(t, func(ctx *bt.TickContext) bt.Status {
		got = ctx.Delta()
		seen, _ = ctx.Value("hp")
		return bt.StatusRunning
	})
	agent := NewAgent("npc", tree)
	agent.Values["hp"] = 10
	require.NoError(t, r.Add(agent))

	require.NoError(t, r.TickOnce(context.Background(), 40*time.Millisecond))
	assert.Equal(t, 40*time.Millisecond, got)
	assert.Equal(t, 10, seen)
	assert.Equal(t, bt.StatusRunning, tree.Status())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics().ticks.WithLabelValues("Running")))
}

func TestTickOnceTicksEveryAgentOnce(t *testing.T) {
	r := newRunner(t, 4)
	var mu sync.Mutex
	counts := make(map[string]int)

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("npc-%d", i)
		require.NoError(t, r.Add(NewAgent(id, newTree(t, func(*bt.TickContext) bt.Status {
			mu.Lock()
			counts[id]++
			mu.Unlock()
			return bt.StatusSuccess
		}))))
	}

	require.NoError(t, r.TickOnce(context.Background(), time.Millisecond))
	require.NoError(t, r.TickOnce(context.Background(), time.Millisecond))
	require.Len(t, counts, 50)
	for id, n := range counts {
		assert.Equal(t, 2, n, id)
	}
}

func TestPanicIsRecoveredAndTreeReset(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r, err := New(Options{Interval: time.Millisecond, Workers: 2}, log.NewWithCore(core), nil)
	require.NoError(t, err)

	calls := 0
	first, err := bt.NewAction("first", func(*bt.TickContext) bt.Status { return bt.StatusSuccess })
	require.NoError(t, err)
	boom, err := bt.NewAction("boom", func(*bt.TickContext) bt.Status {
		calls++
		if calls == 2 {
			panic("exploded")
		}
		return bt.StatusRunning
	})
	require.NoError(t, err)
	seq, err := bt.NewSequence("root", first, boom)
	require.NoError(t, err)
	tree, err := bt.NewBehaviorTree(seq)
	require.NoError(t, err)

	healthy := newTree(t, func(*bt.TickContext) bt.Status { return bt.StatusSuccess })
	require.NoError(t, r.Add(NewAgent("bad", tree)))
	require.NoError(t, r.Add(NewAgent("good", healthy)))

	var events []TickEvent
	var mu sync.Mutex
	r.Observe(func(ev TickEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	require.NoError(t, r.TickOnce(context.Background(), time.Millisecond))
	assert.Equal(t, 1, seq.CurrentIndex())

	err = r.TickOnce(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, ErrAgentPanic)
	assert.Contains(t, err.Error(), "exploded")
	assert.Equal(t, 0, seq.CurrentIndex())
	assert.Equal(t, bt.StatusInvalid, tree.Status())
	assert.EqualValues(t, 2, healthy.Ticks())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics().panics))
	assert.Equal(t, 1, logs.FilterMessage("agent tick panicked, resetting tree").Len())

	mu.Lock()
	defer mu.Unlock()
	var failed []TickEvent
	for _, ev := range events {
		if ev.Err != nil {
			failed = append(failed, ev)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].AgentID)
	assert.Equal(t, bt.StatusFailure, failed[0].Status)
}

func TestSensorsRunBeforeTick(t *testing.T) {
	r := newRunner(t, 1)
	var seen any
	tree := newTree(t, func(ctx *bt.TickContext) bt.Status {
		seen, _ = ctx.Value("dist")
		return bt.StatusSuccess
	})
	dist := SensorFunc{ID: "dist", Fn: func(_ context.Context, values map[string]any, _ time.Duration) error {
		values["dist"] = 3.5
		return nil
	}}
	require.NoError(t, r.Add(NewAgent("npc", tree, dist)))

	require.NoError(t, r.TickOnce(context.Background(), time.Millisecond))
	assert.Equal(t, 3.5, seen)
}

func TestSensorErrorSkipsTick(t *testing.T) {
	r := newRunner(t, 1)
	tree := newTree(t, func(*bt.TickContext) bt.Status { return bt.StatusSuccess })
	broken := SensorFunc{ID: "radar", Fn: func(context.Context, map[string]any, time.Duration) error {
		return errors.New("no signal")
	}}
	require.NoError(t, r.Add(NewAgent("npc", tree, broken)))

	err := r.TickOnce(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, ErrSensor)
	assert.Contains(t, err.Error(), "radar")
	assert.EqualValues(t, 0, tree.Ticks())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics().sensorErrors))
}

func TestTickOnceCancelled(t *testing.T) {
	r := newRunner(t, 2)
	require.NoError(t, r.Add(NewAgent("npc", newTree(t, func(*bt.TickContext) bt.Status { return bt.StatusSuccess }))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.TickOnce(ctx, time.Millisecond), context.Canceled)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRunner(t, 2)
	var mu sync.Mutex
	ticks := 0
	require.NoError(t, r.Add(NewAgent("npc", newTree(t, func(ctx *bt.TickContext) bt.Status {
		mu.Lock()
		ticks++
		mu.Unlock()
		return bt.StatusRunning
	}))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestResetAgent(t *testing.T) {
	r := newRunner(t, 2)
	tree := newTree(t, func(*bt.TickContext) bt.Status { return bt.StatusRunning })
	require.NoError(t, r.Add(NewAgent("npc", tree)))

	require.NoError(t, r.TickOnce(context.Background(), time.Millisecond))
	assert.Equal(t, bt.StatusRunning, tree.Status())

	assert.True(t, r.ResetAgent("npc"))
	assert.Equal(t, bt.StatusInvalid, tree.Status())
	assert.False(t, r.ResetAgent("ghost"))
}
