package btconfig

import (
	"fmt"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

// RegisterBuiltins installs the callbacks every definition can use without host code:
//
//	actions:    succeed, fail, running
//	conditions: is_true {key}, exists {key}, compare {key, op, value}
//
// Conditions read from TickContext.Values.
func RegisterBuiltins(r *Registry) {
	r.RegisterAction("succeed", constant(bt.StatusSuccess))
	r.RegisterAction("fail", constant(bt.StatusFailure))
	r.RegisterAction("running", constant(bt.StatusRunning))

	r.RegisterCondition("is_true", func(params map[string]any) (bt.ConditionFunc, error) {
		key, err := stringParam(params, "key")
		if err != nil {
			return nil, err
		}
		return func(ctx *bt.TickContext) bool {
			v, _ := ctx.Value(key)
			b, _ := v.(bool)
			return b
		}, nil
	})

	r.RegisterCondition("exists", func(params map[string]any) (bt.ConditionFunc, error) {
		key, err := stringParam(params, "key")
		if err != nil {
			return nil, err
		}
		return func(ctx *bt.TickContext) bool {
			_, ok := ctx.Value(key)
			return ok
		}, nil
	})

	r.RegisterCondition("compare", func(params map[string]any) (bt.ConditionFunc, error) {
		key, err := stringParam(params, "key")
		if err != nil {
			return nil, err
		}
		op, err := stringParam(params, "op")
		if err != nil {
			return nil, err
		}
		if !validOperator(op) {
			return nil, fmt.Errorf("%w: op=%q", ErrInvalidParam, op)
		}
		want, ok := params["value"]
		if !ok {
			return nil, fmt.Errorf("%w: value is required", ErrInvalidParam)
		}
		return func(ctx *bt.TickContext) bool {
			got, ok := ctx.Value(key)
			if !ok {
				return false
			}
			return compareValues(got, op, want)
		}, nil
	})
}

// NewDefaultRegistry returns a registry with the builtins installed.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

func constant(st bt.Status) ActionFactory {
	return func(map[string]any) (bt.ActionFunc, error) {
		return func(*bt.TickContext) bt.Status { return st }, nil
	}
}

func validOperator(op string) bool {
	switch op {
	case "==", "eq", "!=", "ne", ">", "gt", ">=", "gte", "<", "lt", "<=", "lte":
		return true
	}
	return false
}

func compareValues(a any, operator string, b any) bool {
	switch operator {
	case "==", "eq":
		return equalValues(a, b)
	case "!=", "ne":
		return !equalValues(a, b)
	case ">", "gt":
		return compareNumeric(a, b, func(x, y float64) bool { return x > y })
	case ">=", "gte":
		return compareNumeric(a, b, func(x, y float64) bool { return x >= y })
	case "<", "lt":
		return compareNumeric(a, b, func(x, y float64) bool { return x < y })
	case "<=", "lte":
		return compareNumeric(a, b, func(x, y float64) bool { return x <= y })
	default:
		return false
	}
}

// equalValues treats 3 and 3.0 as equal since definitions decode numbers loosely.
func equalValues(a, b any) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af == bf
	}
	defer func() { _ = recover() }()
	return a == b
}

func compareNumeric(a, b any, cmp func(float64, float64) bool) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if !aok || !bok {
		return false
	}
	return cmp(af, bf)
}
