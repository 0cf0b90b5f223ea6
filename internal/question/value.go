package question

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind identifies the concrete type carried by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueFloat
	ValueInt
	ValueTime
)

// Value is the typed answer produced by a field controller: a string,
// float, int, or timestamp depending on the field kind.
type Value struct {
	Kind  ValueKind
	Str   string
	Float float64
	Int   int64
	Time  time.Time
}

// String wraps s as a string value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// FloatVal wraps f as a float value.
func FloatVal(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// IntVal wraps i as an integer value.
func IntVal(i int64) Value { return Value{Kind: ValueInt, Int: i} }

// TimeVal wraps t as a timestamp value.
func TimeVal(t time.Time) Value { return Value{Kind: ValueTime, Time: t} }

// IsZero reports whether the value is the empty answer of its kind.
// Only string values can be empty; the other kinds always carry a
// concrete value once produced.
func (v Value) IsZero() bool {
	return v.Kind == ValueString && v.Str == ""
}

// Display renders the value the way the field would show it.
func (v Value) Display() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueTime:
		return v.Time.Format("2006-01-02 15:04")
	default:
		return fmt.Sprintf("value(kind=%d)", int(v.Kind))
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueString:
		return v.Str == o.Str
	case ValueFloat:
		return v.Float == o.Float
	case ValueInt:
		return v.Int == o.Int
	case ValueTime:
		return v.Time.Equal(o.Time)
	default:
		return false
	}
}
