package ir

import (
	"fmt"
	"strconv"
)

// ValueKind tags an operand: absent, a compile-time constant, or a
// reference to a temp or variable slot.
type ValueKind int

const (
	ValNone ValueKind = iota
	ValInt
	ValFloat
	ValBool
	ValString
	ValRef
)

// Value is an instruction operand.
type Value struct {
	Kind   ValueKind
	Int    int64
	Float  float64
	Bool   bool
	Str    string
	Ref    string
}

func IntVal(v int64) Value      { return Value{Kind: ValInt, Int: v} }
func FloatVal(v float64) Value  { return Value{Kind: ValFloat, Float: v} }
func BoolVal(v bool) Value      { return Value{Kind: ValBool, Bool: v} }
func StringVal(v string) Value  { return Value{Kind: ValString, Str: v} }
func RefVal(name string) Value  { return Value{Kind: ValRef, Ref: name} }

// IsConst reports whether the operand is a compile-time constant.
func (v Value) IsConst() bool {
	switch v.Kind {
	case ValInt, ValFloat, ValBool, ValString:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case ValNone:
		return "<none>"
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValString:
		return strconv.Quote(v.Str)
	case ValRef:
		return v.Ref
	default:
		return fmt.Sprintf("value(%d)", int(v.Kind))
	}
}

// Equal reports whether two operands are the same constant or the same
// reference.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValInt:
		return v.Int == o.Int
	case ValFloat:
		return v.Float == o.Float
	case ValBool:
		return v.Bool == o.Bool
	case ValString:
		return v.Str == o.Str
	case ValRef:
		return v.Ref == o.Ref
	}
	return true
}
