package bt

import (
	"fmt"
	"time"
)

// ActionFunc performs host work and reports its outcome.
type ActionFunc func(ctx *TickContext) Status

// ConditionFunc evaluates a host predicate.
type ConditionFunc func(ctx *TickContext) bool

// Action runs a callback and returns its status unmodified. A callback must return one
// of Success, Failure or Running; any other value is reported as Failure.
//
// A panic raised by the callback is not recovered: it propagates out of Tree.Tick to the
// driver. There is no rollback, ancestors keep whatever progress they had before the call.
type Action struct {
	baseNode
	fn ActionFunc
}

// NewAction creates an action leaf.
func NewAction(name string, fn ActionFunc) (*Action, error) {
	if fn == nil {
		return nil, fmt.Errorf("action %q: %w", name, ErrNilCallback)
	}
	return &Action{baseNode: newBaseNode(name, KindAction), fn: fn}, nil
}

// Tick invokes the callback once.
func (a *Action) Tick(ctx *TickContext) Status {
	return a.finish(a.fn(ctx).normalize())
}

// Reset clears the last status. Actions keep no progress of their own.
func (a *Action) Reset() { a.resetStatus() }

func (a *Action) resetProgress() {}

// Condition maps a predicate onto Success or Failure. It never reports Running.
type Condition struct {
	baseNode
	fn ConditionFunc
}

// NewCondition creates a condition leaf.
func NewCondition(name string, fn ConditionFunc) (*Condition, error) {
	if fn == nil {
		return nil, fmt.Errorf("condition %q: %w", name, ErrNilCallback)
	}
	return &Condition{baseNode: newBaseNode(name, KindCondition), fn: fn}, nil
}

// Tick evaluates the predicate once.
func (c *Condition) Tick(ctx *TickContext) Status {
	if c.fn(ctx) {
		return c.finish(StatusSuccess)
	}
	return c.finish(StatusFailure)
}

// Reset clears the last status.
func (c *Condition) Reset() { c.resetStatus() }

func (c *Condition) resetProgress() {}

// Wait stays Running until the accumulated tick deltas reach its duration.
type Wait struct {
	baseNode
	duration time.Duration
	elapsed  time.Duration
}

// NewWait creates a timer leaf. A zero duration succeeds on the first tick.
func NewWait(name string, duration time.Duration) (*Wait, error) {
	if duration < 0 {
		return nil, fmt.Errorf("wait %q: %w", name, ErrInvalidDuration)
	}
	return &Wait{baseNode: newBaseNode(name, KindWait), duration: duration}, nil
}

// Tick adds the context delta and succeeds once the duration is reached, rearming the timer.
func (w *Wait) Tick(ctx *TickContext) Status {
	w.elapsed += ctx.Delta()
	if w.elapsed >= w.duration {
		w.elapsed = 0
		return w.finish(StatusSuccess)
	}
	return w.finish(StatusRunning)
}

// Reset clears the last status and the elapsed time.
func (w *Wait) Reset() {
	w.resetStatus()
	w.elapsed = 0
}

func (w *Wait) resetProgress() { w.elapsed = 0 }

// Duration returns the configured wait time.
func (w *Wait) Duration() time.Duration { return w.duration }

// Elapsed returns the time accumulated in the current Running streak.
func (w *Wait) Elapsed() time.Duration { return w.elapsed }
