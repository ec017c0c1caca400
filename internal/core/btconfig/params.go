package btconfig

import (
	"fmt"
	"time"
)

func intParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidParam, key, v)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidParam, key, v)
	}
}

// durationParam accepts Go duration strings ("1.5s") or a number of milliseconds.
func durationParam(params map[string]any, key string) (time.Duration, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidParam, key)
	}
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
		}
		return parsed, nil
	case int:
		return time.Duration(d) * time.Millisecond, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	case float64:
		return time.Duration(d * float64(time.Millisecond)), nil
	default:
		return 0, fmt.Errorf("%w: %s=%v is not a duration", ErrInvalidParam, key, v)
	}
}

func stringParam(params map[string]any, key string) (string, error) {
	s, _ := params[key].(string)
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidParam, key)
	}
	return s, nil
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
