package bt

import "fmt"

// Sequence ticks children left to right and succeeds only when all of them succeed.
// It resumes at the child that was Running on the previous tick.
type Sequence struct {
	baseNode
	children     []Node
	currentChild int
}

// NewSequence creates a sequence over children.
func NewSequence(name string, children ...Node) (*Sequence, error) {
	if err := checkChildren(name, children); err != nil {
		return nil, err
	}
	return &Sequence{baseNode: newBaseNode(name, KindSequence), children: children}, nil
}

// Tick resumes at the current child and advances while children succeed. A terminal
// result rewinds the sequence and its subtree; the last statuses stay readable.
func (s *Sequence) Tick(ctx *TickContext) Status {
	for s.currentChild < len(s.children) {
		switch s.children[s.currentChild].Tick(ctx).normalize() {
		case StatusSuccess:
			s.currentChild++
		case StatusRunning:
			return s.finish(StatusRunning)
		default:
			s.resetProgress()
			return s.finish(StatusFailure)
		}
	}
	s.resetProgress()
	return s.finish(StatusSuccess)
}

// Reset returns the sequence and its subtree to the never-ticked state.
func (s *Sequence) Reset() {
	s.resetStatus()
	s.currentChild = 0
	for _, child := range s.children {
		child.Reset()
	}
}

func (s *Sequence) resetProgress() {
	s.currentChild = 0
	for _, child := range s.children {
		resetProgress(child)
	}
}

// Children returns the children in tick order.
func (s *Sequence) Children() []Node { return s.children }

// CurrentIndex returns the index of the child that will be ticked next.
func (s *Sequence) CurrentIndex() int { return s.currentChild }

func (s *Sequence) addChild(child Node) { s.children = append(s.children, child) }
func (s *Sequence) replaceLast(n Node)  { s.children[len(s.children)-1] = n }

// Selector ticks children left to right until one succeeds.
// It resumes at the child that was Running on the previous tick.
type Selector struct {
	baseNode
	children     []Node
	currentChild int
}

// NewSelector creates a selector over children.
func NewSelector(name string, children ...Node) (*Selector, error) {
	if err := checkChildren(name, children); err != nil {
		return nil, err
	}
	return &Selector{baseNode: newBaseNode(name, KindSelector), children: children}, nil
}

// Tick resumes at the current child and moves on while children fail. A terminal
// result rewinds the selector and its subtree; the last statuses stay readable.
func (s *Selector) Tick(ctx *TickContext) Status {
	for s.currentChild < len(s.children) {
		switch s.children[s.currentChild].Tick(ctx).normalize() {
		case StatusSuccess:
			s.resetProgress()
			return s.finish(StatusSuccess)
		case StatusRunning:
			return s.finish(StatusRunning)
		default:
			s.currentChild++
		}
	}
	s.resetProgress()
	return s.finish(StatusFailure)
}

// Reset returns the selector and its subtree to the never-ticked state.
func (s *Selector) Reset() {
	s.resetStatus()
	s.currentChild = 0
	for _, child := range s.children {
		child.Reset()
	}
}

func (s *Selector) resetProgress() {
	s.currentChild = 0
	for _, child := range s.children {
		resetProgress(child)
	}
}

// Children returns the children in tick order.
func (s *Selector) Children() []Node { return s.children }

// CurrentIndex returns the index of the child that will be ticked next.
func (s *Selector) CurrentIndex() int { return s.currentChild }

func (s *Selector) addChild(child Node) { s.children = append(s.children, child) }
func (s *Selector) replaceLast(n Node)  { s.children[len(s.children)-1] = n }

// Parallel ticks every child on every call and classifies the aggregate by thresholds.
// Success is checked before failure, so a tick meeting both thresholds succeeds.
// Children keep their own resumption state; Parallel has no child index.
type Parallel struct {
	baseNode
	children         []Node
	successThreshold int
	failureThreshold int
}

// NewParallel creates a parallel composite. Both thresholds must be at least 1.
func NewParallel(name string, successThreshold, failureThreshold int, children ...Node) (*Parallel, error) {
	if successThreshold < 1 || failureThreshold < 1 {
		return nil, fmt.Errorf("parallel %q (success=%d, failure=%d): %w",
			name, successThreshold, failureThreshold, ErrInvalidThreshold)
	}
	if err := checkChildren(name, children); err != nil {
		return nil, err
	}
	return &Parallel{
		baseNode:         newBaseNode(name, KindParallel),
		children:         children,
		successThreshold: successThreshold,
		failureThreshold: failureThreshold,
	}, nil
}

// Tick ticks every child once and checks the success threshold before the failure one.
func (p *Parallel) Tick(ctx *TickContext) Status {
	successCount := 0
	failureCount := 0
	for _, child := range p.children {
		switch child.Tick(ctx).normalize() {
		case StatusSuccess:
			successCount++
		case StatusFailure:
			failureCount++
		}
	}

	if successCount >= p.successThreshold {
		p.resetProgress()
		return p.finish(StatusSuccess)
	}
	if failureCount >= p.failureThreshold {
		p.resetProgress()
		return p.finish(StatusFailure)
	}
	return p.finish(StatusRunning)
}

// Reset returns the parallel and its subtree to the never-ticked state.
func (p *Parallel) Reset() {
	p.resetStatus()
	for _, child := range p.children {
		child.Reset()
	}
}

func (p *Parallel) resetProgress() {
	for _, child := range p.children {
		resetProgress(child)
	}
}

// Children returns the children in tick order.
func (p *Parallel) Children() []Node { return p.children }

// Thresholds returns the success and failure thresholds.
func (p *Parallel) Thresholds() (success, failure int) {
	return p.successThreshold, p.failureThreshold
}

func (p *Parallel) addChild(child Node) { p.children = append(p.children, child) }
func (p *Parallel) replaceLast(n Node)  { p.children[len(p.children)-1] = n }

// mutableComposite is implemented by the composites the Builder can grow.
type mutableComposite interface {
	Composite
	addChild(child Node)
	replaceLast(n Node)
}

var (
	_ mutableComposite = (*Sequence)(nil)
	_ mutableComposite = (*Selector)(nil)
	_ mutableComposite = (*Parallel)(nil)
)

func checkChildren(name string, children []Node) error {
	for i, child := range children {
		if child == nil {
			return fmt.Errorf("%q child %d: %w", name, i, ErrNilChild)
		}
	}
	return nil
}
