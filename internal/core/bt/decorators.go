package bt

import "fmt"

// RepeatForever makes a Repeater run its child without a budget.
const RepeatForever = -1

// decorator holds the single child shared by all decorator nodes.
type decorator struct {
	baseNode
	child Node
}

func newDecorator(name string, kind Kind, child Node) (decorator, error) {
	if child == nil {
		return decorator{}, fmt.Errorf("%s %q: %w", kind, name, ErrNilChild)
	}
	return decorator{baseNode: newBaseNode(name, kind), child: child}, nil
}

// Child returns the wrapped node.
func (d *decorator) Child() Node { return d.child }

// Reset returns the decorator and its child to the never-ticked state.
func (d *decorator) Reset() {
	d.resetStatus()
	d.child.Reset()
}

func (d *decorator) resetProgress() { resetProgress(d.child) }

// Inverter swaps Success and Failure; Running passes through.
type Inverter struct {
	decorator
}

// NewInverter wraps child in an inverter.
func NewInverter(name string, child Node) (*Inverter, error) {
	d, err := newDecorator(name, KindInverter, child)
	if err != nil {
		return nil, err
	}
	return &Inverter{decorator: d}, nil
}

// Tick ticks the child and inverts a terminal result.
func (i *Inverter) Tick(ctx *TickContext) Status {
	switch i.child.Tick(ctx).normalize() {
	case StatusSuccess:
		return i.finish(StatusFailure)
	case StatusFailure:
		return i.finish(StatusSuccess)
	default:
		return i.finish(StatusRunning)
	}
}

// Repeater runs its child count times and then succeeds.
//
// A child Failure counts as a completed repetition exactly like a Success: it does not
// abort the repeater. Only the budget ends the loop.
type Repeater struct {
	decorator
	count        int
	currentCount int
}

// NewRepeater wraps child in a repeater. count is the repetition budget or RepeatForever.
func NewRepeater(name string, count int, child Node) (*Repeater, error) {
	if count < RepeatForever {
		return nil, fmt.Errorf("repeater %q (count=%d): %w", name, count, ErrInvalidCount)
	}
	d, err := newDecorator(name, KindRepeater, child)
	if err != nil {
		return nil, err
	}
	return &Repeater{decorator: d, count: count}, nil
}

func (r *Repeater) exhausted() bool {
	return r.count != RepeatForever && r.currentCount >= r.count
}

// Tick ticks the child once, counting every terminal result as a repetition.
func (r *Repeater) Tick(ctx *TickContext) Status {
	if r.exhausted() {
		r.resetProgress()
		return r.finish(StatusSuccess)
	}

	if r.child.Tick(ctx).normalize().IsTerminal() {
		r.currentCount++
		resetProgress(r.child)
		if r.exhausted() {
			r.resetProgress()
			return r.finish(StatusSuccess)
		}
	}
	return r.finish(StatusRunning)
}

// Reset returns the repeater and its child to the never-ticked state.
func (r *Repeater) Reset() {
	r.decorator.Reset()
	r.currentCount = 0
}

func (r *Repeater) resetProgress() {
	r.decorator.resetProgress()
	r.currentCount = 0
}

// Count returns the repetition budget, or RepeatForever.
func (r *Repeater) Count() int { return r.count }

// CurrentCount returns the repetitions completed since the last reset.
func (r *Repeater) CurrentCount() int { return r.currentCount }

// UntilFail restarts its child after every success and succeeds once the child fails.
type UntilFail struct {
	decorator
}

// NewUntilFail wraps child in an until-fail loop.
func NewUntilFail(name string, child Node) (*UntilFail, error) {
	d, err := newDecorator(name, KindUntilFail, child)
	if err != nil {
		return nil, err
	}
	return &UntilFail{decorator: d}, nil
}

// Tick ticks the child once and succeeds on its first failure.
func (u *UntilFail) Tick(ctx *TickContext) Status {
	switch u.child.Tick(ctx).normalize() {
	case StatusFailure:
		u.resetProgress()
		return u.finish(StatusSuccess)
	case StatusSuccess:
		resetProgress(u.child)
		return u.finish(StatusRunning)
	default:
		return u.finish(StatusRunning)
	}
}

// Succeeder ticks its child for its side effects and always reports Success.
type Succeeder struct {
	decorator
}

// NewSucceeder wraps child in a succeeder.
func NewSucceeder(name string, child Node) (*Succeeder, error) {
	d, err := newDecorator(name, KindSucceeder, child)
	if err != nil {
		return nil, err
	}
	return &Succeeder{decorator: d}, nil
}

// Tick ticks the child and ignores its result.
func (s *Succeeder) Tick(ctx *TickContext) Status {
	s.child.Tick(ctx)
	return s.finish(StatusSuccess)
}

var (
	_ Decorator = (*Inverter)(nil)
	_ Decorator = (*Repeater)(nil)
	_ Decorator = (*UntilFail)(nil)
	_ Decorator = (*Succeeder)(nil)
)
