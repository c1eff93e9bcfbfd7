package lang

import (
	"log/slog"
	"strconv"
)

// Value is the result of evaluating a [Node]. Implementations must be
// immutable.
type Value interface {
	// Type returns the kind of value, e.g. "NumberValue".
	Type() string
	// Repr returns the textual form recorded in a [Report].
	Repr() string
	// Truthy reports whether the value counts as true in a boolean context.
	Truthy() bool
}

// Type tags of the built-in values.
const (
	NullType    = "NullValue"
	NumberType  = "NumberValue"
	BooleanType = "BooleanValue"
)

// Null is the absence of a value.
type Null struct{}

func (Null) Type() string { return NullType }
func (Null) Repr() string { return "null" }
func (Null) Truthy() bool { return false }

// Number is a 64-bit floating point value.
type Number float64

func (Number) Type() string { return NumberType }

// Repr formats n with six decimal places.
func (n Number) Repr() string { return strconv.FormatFloat(float64(n), 'f', 6, 64) }

func (n Number) Truthy() bool { return n != 0 }

// Boolean is a truth value.
type Boolean bool

func (Boolean) Type() string { return BooleanType }

func (b Boolean) Repr() string { return strconv.FormatBool(bool(b)) }

func (b Boolean) Truthy() bool { return bool(b) }

// Truth returns the truthiness of v as a Boolean. A nil v is false.
func Truth(v Value) Boolean {
	if v == nil {
		return false
	}

	return Boolean(v.Truthy())
}

// AsNumber returns v as a Number.
func AsNumber(v Value) (Number, bool) {
	n, ok := v.(Number)

	return n, ok
}

// valueAttr returns a log attribute describing v.
func valueAttr(key string, v Value) slog.Attr {
	if v == nil {
		return slog.String(key, "<nil>")
	}

	return slog.Group(key,
		slog.String("type", v.Type()),
		slog.String("repr", v.Repr()),
	)
}
