package btconfig

import "errors"

// Definition errors. Build wraps them with the offending node name.
var (
	ErrUnknownNode        = errors.New("unknown node")
	ErrUnknownType        = errors.New("unsupported node type")
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownCondition   = errors.New("unknown condition")
	ErrSharedNode         = errors.New("node is referenced by more than one parent")
	ErrCycle              = errors.New("node references itself through its descendants")
	ErrUnreachableNode    = errors.New("node is not reachable from root")
	ErrMissingRoot        = errors.New("definition has no root")
	ErrInvalidParam       = errors.New("invalid parameter")
	ErrUnsupportedFormat  = errors.New("unsupported definition format")
	ErrDecoratorNeedChild = errors.New("decorator requires exactly one child")
)
