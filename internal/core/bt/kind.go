package bt

// Kind tags every node implementation shipped by this package.
type Kind uint8

const (
	KindAction Kind = iota + 1
	KindCondition
	KindWait
	KindSequence
	KindSelector
	KindParallel
	KindInverter
	KindRepeater
	KindUntilFail
	KindSucceeder
)

var kindNames = map[Kind]string{
	KindAction:    "Action",
	KindCondition: "Condition",
	KindWait:      "Wait",
	KindSequence:  "Sequence",
	KindSelector:  "Selector",
	KindParallel:  "Parallel",
	KindInverter:  "Inverter",
	KindRepeater:  "Repeater",
	KindUntilFail: "UntilFail",
	KindSucceeder: "Succeeder",
}

// String returns the kind name, or "Unknown" for values outside the enum.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the kind by name in snapshots.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsLeaf reports whether nodes of this kind have no children.
func (k Kind) IsLeaf() bool {
	return k == KindAction || k == KindCondition || k == KindWait
}

// IsComposite reports whether nodes of this kind own an ordered list of children.
func (k Kind) IsComposite() bool {
	return k == KindSequence || k == KindSelector || k == KindParallel
}

// IsDecorator reports whether nodes of this kind wrap exactly one child.
func (k Kind) IsDecorator() bool {
	return k == KindInverter || k == KindRepeater || k == KindUntilFail || k == KindSucceeder
}
