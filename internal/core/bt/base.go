package bt

// baseNode keeps the name, kind and last status shared by every node.
type baseNode struct {
	name   string
	kind   Kind
	status Status
}

func newBaseNode(name string, kind Kind) baseNode {
	return baseNode{name: name, kind: kind, status: StatusInvalid}
}

// Name, Kind and Status implement the diagnostic half of Node.
func (b *baseNode) Name() string   { return b.name }
func (b *baseNode) Kind() Kind     { return b.kind }
func (b *baseNode) Status() Status { return b.status }

// finish records st as the last status and returns it.
func (b *baseNode) finish(st Status) Status {
	b.status = st
	return st
}

func (b *baseNode) resetStatus() { b.status = StatusInvalid }

// progressResetter is implemented by every node in this package. resetProgress clears
// indices, counters and timers of the whole subtree but keeps each node's last status,
// so a snapshot taken after a terminal tick still shows which child decided it.
type progressResetter interface {
	resetProgress()
}

// resetProgress rewinds n. Nodes from outside the package only offer Reset.
func resetProgress(n Node) {
	if p, ok := n.(progressResetter); ok {
		p.resetProgress()
		return
	}
	n.Reset()
}

var (
	_ progressResetter = (*Action)(nil)
	_ progressResetter = (*Condition)(nil)
	_ progressResetter = (*Wait)(nil)
	_ progressResetter = (*Sequence)(nil)
	_ progressResetter = (*Selector)(nil)
	_ progressResetter = (*Parallel)(nil)
	_ progressResetter = (*Inverter)(nil)
	_ progressResetter = (*Repeater)(nil)
	_ progressResetter = (*UntilFail)(nil)
	_ progressResetter = (*Succeeder)(nil)
)
