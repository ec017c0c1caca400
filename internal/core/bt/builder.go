package bt

import (
	"fmt"
	"time"
)

// DefaultThreshold is the success and failure threshold used by Parallel nodes built
// through Builder.ParallelDefault.
const DefaultThreshold = 1

// Builder assembles a tree from a flat sequence of calls.
//
// Composite calls open a node that receives the following calls as children until End.
// Leaf calls attach to the open composite. Decorator calls wrap the node attached right
// before them and must therefore follow it immediately. The first error is kept and
// returned by Build; later calls are ignored.
//
//	tree, err := bt.NewBuilder().
//		Sequence("patrol").
//			Condition("has route", hasRoute).
//			Action("walk", walk).
//			Inverter("not walking").
//		End().
//		Build()
type Builder struct {
	stack []mutableComposite
	root  Node
	last  Node
	built bool
	err   error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Sequence opens a sequence composite.
func (b *Builder) Sequence(name string) *Builder {
	if b.err != nil {
		return b
	}
	s, err := NewSequence(name)
	return b.open(s, err)
}

// Selector opens a selector composite.
func (b *Builder) Selector(name string) *Builder {
	if b.err != nil {
		return b
	}
	s, err := NewSelector(name)
	return b.open(s, err)
}

// Parallel opens a parallel composite with explicit thresholds.
func (b *Builder) Parallel(name string, successThreshold, failureThreshold int) *Builder {
	if b.err != nil {
		return b
	}
	p, err := NewParallel(name, successThreshold, failureThreshold)
	return b.open(p, err)
}

// ParallelDefault opens a parallel composite with both thresholds set to DefaultThreshold.
func (b *Builder) ParallelDefault(name string) *Builder {
	return b.Parallel(name, DefaultThreshold, DefaultThreshold)
}

// Action attaches an action leaf.
func (b *Builder) Action(name string, fn ActionFunc) *Builder {
	if b.err != nil {
		return b
	}
	a, err := NewAction(name, fn)
	return b.leaf(a, err)
}

// Condition attaches a condition leaf.
func (b *Builder) Condition(name string, fn ConditionFunc) *Builder {
	if b.err != nil {
		return b
	}
	c, err := NewCondition(name, fn)
	return b.leaf(c, err)
}

// Wait attaches a timer leaf.
func (b *Builder) Wait(name string, duration time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	w, err := NewWait(name, duration)
	return b.leaf(w, err)
}

// Inverter wraps the previously attached node.
func (b *Builder) Inverter(name string) *Builder {
	return b.decorate(name, KindInverter, func(child Node) (Node, error) {
		return NewInverter(name, child)
	})
}

// Repeater wraps the previously attached node. Use RepeatForever for no budget.
func (b *Builder) Repeater(name string, count int) *Builder {
	return b.decorate(name, KindRepeater, func(child Node) (Node, error) {
		return NewRepeater(name, count, child)
	})
}

// UntilFail wraps the previously attached node.
func (b *Builder) UntilFail(name string) *Builder {
	return b.decorate(name, KindUntilFail, func(child Node) (Node, error) {
		return NewUntilFail(name, child)
	})
}

// Succeeder wraps the previously attached node.
func (b *Builder) Succeeder(name string) *Builder {
	return b.decorate(name, KindSucceeder, func(child Node) (Node, error) {
		return NewSucceeder(name, child)
	})
}

// End closes the innermost open composite.
func (b *Builder) End() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		b.err = fmt.Errorf("end without open composite: %w", ErrUnbalancedTree)
		return b
	}
	closed := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.last = closed
	return b
}

// Build returns the assembled tree. It fails if any composite is still open.
func (b *Builder) Build(opts ...TreeOption) (*BehaviorTree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, ErrBuilderUsed
	}
	if len(b.stack) > 0 {
		return nil, fmt.Errorf("%d composite(s) still open, innermost %q: %w",
			len(b.stack), b.stack[len(b.stack)-1].Name(), ErrUnbalancedTree)
	}
	if b.root == nil {
		return nil, ErrEmptyTree
	}
	tree, err := NewBehaviorTree(b.root, opts...)
	if err != nil {
		return nil, err
	}
	b.built = true
	return tree, nil
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error { return b.err }

// Depth returns the number of open composites.
func (b *Builder) Depth() int { return len(b.stack) }

func (b *Builder) open(c mutableComposite, err error) *Builder {
	if err != nil {
		b.err = err
		return b
	}
	if !b.attach(c) {
		return b
	}
	b.stack = append(b.stack, c)
	b.last = nil
	return b
}

func (b *Builder) leaf(n Node, err error) *Builder {
	if err != nil {
		b.err = err
		return b
	}
	if b.attach(n) {
		b.last = n
	}
	return b
}

// attach adds n to the open composite, or records it as the root.
func (b *Builder) attach(n Node) bool {
	if b.built {
		b.err = ErrBuilderUsed
		return false
	}
	if len(b.stack) == 0 {
		if b.root != nil {
			b.err = fmt.Errorf("%s %q: %w", n.Kind(), n.Name(), ErrRootAlreadySet)
			return false
		}
		b.root = n
		return true
	}
	b.stack[len(b.stack)-1].addChild(n)
	return true
}

func (b *Builder) decorate(name string, kind Kind, wrap func(Node) (Node, error)) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 || b.last == nil {
		b.err = fmt.Errorf("%s %q: %w", kind, name, ErrNothingToDecorate)
		return b
	}
	d, err := wrap(b.last)
	if err != nil {
		b.err = err
		return b
	}
	b.stack[len(b.stack)-1].replaceLast(d)
	b.last = d
	return b
}
