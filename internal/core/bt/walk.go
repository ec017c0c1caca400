package bt

// Walk visits root and its descendants depth-first, left to right.
// Returning false from visit skips the node's subtree.
func Walk(root Node, visit func(node Node, depth int) bool) {
	walk(root, 0, visit)
}

func walk(n Node, depth int, visit func(Node, int) bool) {
	if n == nil || !visit(n, depth) {
		return
	}
	switch v := n.(type) {
	case Composite:
		for _, child := range v.Children() {
			walk(child, depth+1, visit)
		}
	case Decorator:
		walk(v.Child(), depth+1, visit)
	}
}

// NodeSnapshot is a read-only view of a node and its subtree.
type NodeSnapshot struct {
	Name     string         `json:"name"`
	Kind     Kind           `json:"kind"`
	Status   Status         `json:"status"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot copies the last status of every node under n.
func Snapshot(n Node) NodeSnapshot {
	s := NodeSnapshot{Name: n.Name(), Kind: n.Kind(), Status: n.Status()}
	switch v := n.(type) {
	case Composite:
		s.Children = make([]NodeSnapshot, 0, len(v.Children()))
		for _, child := range v.Children() {
			s.Children = append(s.Children, Snapshot(child))
		}
	case Decorator:
		s.Children = []NodeSnapshot{Snapshot(v.Child())}
	}
	return s
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node, int) bool {
		total++
		return true
	})
	return total
}
