package bt

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zeusync/zeusbt/internal/core/observability/log"
)

// TickObserver is notified after every whole-tree tick.
type TickObserver func(tree *BehaviorTree, status Status)

// TreeOption configures a BehaviorTree.
type TreeOption func(*BehaviorTree)

// WithLogger makes the tree log root status transitions at debug level.
func WithLogger(logger log.Log) TreeOption {
	return func(t *BehaviorTree) { t.logger = logger }
}

// WithObserver registers an observer called after each Tick.
func WithObserver(obs TickObserver) TreeOption {
	return func(t *BehaviorTree) {
		if obs != nil {
			t.observers = append(t.observers, obs)
		}
	}
}

// WithID overrides the generated tree identifier.
func WithID(id string) TreeOption {
	return func(t *BehaviorTree) { t.id = id }
}

// BehaviorTree owns a root node and is the single entry point used by drivers.
// It is not safe for concurrent use; a tree must be ticked by one goroutine at a time.
type BehaviorTree struct {
	id        string
	root      Node
	ticks     uint64
	last      Status
	logger    log.Log
	observers []TickObserver
}

// NewBehaviorTree wraps root.
func NewBehaviorTree(root Node, opts ...TreeOption) (*BehaviorTree, error) {
	if root == nil {
		return nil, fmt.Errorf("behavior tree: %w", ErrEmptyTree)
	}
	t := &BehaviorTree{id: uuid.NewString(), root: root, last: StatusInvalid}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger != nil {
		t.logger = t.logger.With(log.String("tree", t.id), log.String("root", root.Name()))
	}
	return t, nil
}

// Tick evaluates the root once.
func (t *BehaviorTree) Tick(ctx *TickContext) Status {
	st := t.root.Tick(ctx).normalize()
	t.ticks++
	if t.logger != nil && st != t.last {
		t.logger.Debug("behavior tree status changed",
			log.String("from", t.last.String()),
			log.String("to", st.String()),
			log.Uint64("tick", t.ticks),
		)
	}
	t.last = st
	for _, obs := range t.observers {
		obs(t, st)
	}
	return st
}

// Reset discards all in-flight progress of the tree.
func (t *BehaviorTree) Reset() {
	t.root.Reset()
	t.last = StatusInvalid
	if t.logger != nil {
		t.logger.Debug("behavior tree reset", log.Uint64("tick", t.ticks))
	}
}

// ID, Root and Ticks expose the identifier, root node and number of completed Tick calls.
func (t *BehaviorTree) ID() string    { return t.id }
func (t *BehaviorTree) Root() Node    { return t.root }
func (t *BehaviorTree) Ticks() uint64 { return t.ticks }

// Status returns the status of the last Tick, or StatusInvalid after a Reset.
func (t *BehaviorTree) Status() Status { return t.last }

// Snapshot captures the current status of every node.
func (t *BehaviorTree) Snapshot() NodeSnapshot { return Snapshot(t.root) }
