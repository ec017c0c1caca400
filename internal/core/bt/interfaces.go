package bt

import (
	"context"
	"time"
)

// Node is a single unit of a behavior tree.
//
// Tick runs one evaluation step and must be resumable: any progress a node needs in order
// to continue after returning StatusRunning lives in the node itself. Reset returns the
// node and its whole subtree to the never-ticked state.
type Node interface {
	// Tick evaluates the node once.
	Tick(ctx *TickContext) Status

	// Reset clears progress state, recursively for nodes with children.
	Reset()

	// Name is a diagnostic label with no effect on evaluation.
	Name() string

	// Kind identifies the node implementation.
	Kind() Kind

	// Status returns the last status computed by Tick. It survives the automatic rewind
	// composites perform on terminal results and is cleared only by Reset.
	Status() Status
}

// Composite is a node with an ordered list of children.
type Composite interface {
	Node

	// Children returns the children in tick order. Callers must not modify the slice.
	Children() []Node
}

// Decorator is a node that wraps exactly one child.
type Decorator interface {
	Node

	// Child returns the wrapped node.
	Child() Node
}

// TickContext carries per-tick data supplied by the driver.
// Nodes read it during Tick only and never keep a reference to it.
type TickContext struct {
	Context   context.Context
	DeltaTime time.Duration
	Values    map[string]any
}

// Delta returns the elapsed time for this tick. A nil context counts as zero.
func (t *TickContext) Delta() time.Duration {
	if t == nil {
		return 0
	}
	return t.DeltaTime
}

// Value looks up a host value by key.
func (t *TickContext) Value(key string) (any, bool) {
	if t == nil || t.Values == nil {
		return nil, false
	}
	v, ok := t.Values[key]
	return v, ok
}

// Ctx returns the standard context, falling back to context.Background.
func (t *TickContext) Ctx() context.Context {
	if t == nil || t.Context == nil {
		return context.Background()
	}
	return t.Context
}
