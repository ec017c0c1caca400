package log

import "time"

// Log is the structured logger used across the module.
type Log interface {
	Log(level Level, msg string, fields ...Field)

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Log

	SetLevel(level Level)
	GetLevel() Level
}

// Level is the minimum severity a logger emits.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string onto a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a typed key/value pair attached to a log entry.
type Field struct {
	Key   string
	Type  FieldType
	Value any
}

// FieldType selects the zap encoder used for a Field.
type FieldType uint8

const (
	UnknownType FieldType = iota
	BoolType
	DurationType
	Float64Type
	IntType
	Int64Type
	StringType
	Uint64Type
	ErrorType
)

// Any attaches a value encoded by reflection.
func Any(key string, val any) Field {
	return Field{Key: key, Type: UnknownType, Value: val}
}

// Bool attaches a bool.
func Bool(key string, val bool) Field {
	return Field{Key: key, Type: BoolType, Value: val}
}

// Duration attaches a time.Duration.
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Type: DurationType, Value: val}
}

// Float64 attaches a float64.
func Float64(key string, val float64) Field {
	return Field{Key: key, Type: Float64Type, Value: val}
}

// Int attaches an int.
func Int(key string, val int) Field {
	return Field{Key: key, Type: IntType, Value: val}
}

// Int64 attaches an int64.
func Int64(key string, val int64) Field {
	return Field{Key: key, Type: Int64Type, Value: val}
}

// String attaches a string.
func String(key string, val string) Field {
	return Field{Key: key, Type: StringType, Value: val}
}

// Uint64 attaches a uint64.
func Uint64(key string, val uint64) Field {
	return Field{Key: key, Type: Uint64Type, Value: val}
}

// Error attaches err under the "error" key.
func Error(val error) Field {
	return Field{Key: "error", Type: ErrorType, Value: val}
}
