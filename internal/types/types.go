package types

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Type is a term in Sable's structural type language. Equality is
// structural and recursive; the term language has no recursive aliases,
// so every walk terminates.
type Type interface {
	String() string
	equal(Type) bool
}

// Basic types

type BasicKind int

const (
	BasicInvalid BasicKind = iota
	BasicUnit
	BasicInt
	BasicFloat
	BasicBool
	BasicChar
	BasicString
	BasicVoid
)

type Basic struct {
	Kind BasicKind
	Name string
}

func (b *Basic) String() string { return b.Name }

func (b *Basic) equal(other Type) bool {
	o, ok := other.(*Basic)
	if !ok {
		return false
	}
	return b.Kind == o.Kind
}

var (
	Invalid = &Basic{Kind: BasicInvalid, Name: "invalid"}
	Unit    = &Basic{Kind: BasicUnit, Name: "()"}
	Int     = &Basic{Kind: BasicInt, Name: "int"}
	Float   = &Basic{Kind: BasicFloat, Name: "float"}
	Bool    = &Basic{Kind: BasicBool, Name: "bool"}
	Char    = &Basic{Kind: BasicChar, Name: "char"}
	String  = &Basic{Kind: BasicString, Name: "string"}
	Void    = &Basic{Kind: BasicVoid, Name: "void"}
)

func IsInvalid(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind == BasicInvalid
	}
	return false
}

func IsVoid(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind == BasicVoid
	}
	return false
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind == BasicInt || b.Kind == BasicFloat
	}
	return false
}

// Array is [T].

type Array struct {
	Elem Type
}

func (a *Array) String() string { return "[" + a.Elem.String() + "]" }

func (a *Array) equal(other Type) bool {
	o, ok := other.(*Array)
	if !ok {
		return false
	}
	return a.Elem.equal(o.Elem)
}

// Tuple is (T1, T2, ...).

type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) equal(other Type) bool {
	o, ok := other.(*Tuple)
	if !ok {
		return false
	}
	if len(t.Elems) != len(o.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

// Named references a declared record type by name.

type Named struct {
	Name string
}

func (n *Named) String() string { return n.Name }

func (n *Named) equal(other Type) bool {
	o, ok := other.(*Named)
	if !ok {
		return false
	}
	return n.Name == o.Name
}

// Mathematical types

// Vector is vec<dim, T>.
type Vector struct {
	Dim  int
	Elem Type
}

func (v *Vector) String() string { return fmt.Sprintf("vec%d<%s>", v.Dim, v.Elem) }

func (v *Vector) equal(other Type) bool {
	o, ok := other.(*Vector)
	if !ok {
		return false
	}
	return v.Dim == o.Dim && v.Elem.equal(o.Elem)
}

// Matrix is mat<rows, cols, T>.
type Matrix struct {
	Rows int
	Cols int
	Elem Type
}

func (m *Matrix) String() string { return fmt.Sprintf("mat%dx%d<%s>", m.Rows, m.Cols, m.Elem) }

func (m *Matrix) equal(other Type) bool {
	o, ok := other.(*Matrix)
	if !ok {
		return false
	}
	return m.Rows == o.Rows && m.Cols == o.Cols && m.Elem.equal(o.Elem)
}

// Tensor is tensor<d1, d2, ..., T>.
type Tensor struct {
	Dims []int
	Elem Type
}

func (t *Tensor) String() string {
	parts := make([]string, len(t.Dims))
	for i, d := range t.Dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "tensor<" + strings.Join(parts, "x") + ", " + t.Elem.String() + ">"
}

func (t *Tensor) equal(other Type) bool {
	o, ok := other.(*Tensor)
	if !ok {
		return false
	}
	return slices.Equal(t.Dims, o.Dims) && t.Elem.equal(o.Elem)
}

// Quaternion is quat<T>.
type Quaternion struct {
	Elem Type
}

func (q *Quaternion) String() string { return "quat<" + q.Elem.String() + ">" }

func (q *Quaternion) equal(other Type) bool {
	o, ok := other.(*Quaternion)
	if !ok {
		return false
	}
	return q.Elem.equal(o.Elem)
}

// Complex is complex<T>.
type Complex struct {
	Elem Type
}

func (c *Complex) String() string { return "complex<" + c.Elem.String() + ">" }

func (c *Complex) equal(other Type) bool {
	o, ok := other.(*Complex)
	if !ok {
		return false
	}
	return c.Elem.equal(o.Elem)
}

// Function is fn(T1, ...) -> R, optionally carrying a function priority.
// Two function types are equal only if parameters, result and priority
// tag all match.

type Function struct {
	Params   []Type
	Result   Type
	Priority *FuncPriority // nil when untagged
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	s := "fn(" + strings.Join(parts, ", ") + ") -> " + f.Result.String()
	if f.Priority != nil {
		s += " @" + f.Priority.String()
	}
	return s
}

func (f *Function) equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok {
		return false
	}
	if len(f.Params) != len(o.Params) {
		return false
	}
	for i, p := range f.Params {
		if !p.equal(o.Params[i]) {
			return false
		}
	}
	if !f.Result.equal(o.Result) {
		return false
	}
	return f.Priority.Equal(o.Priority)
}

// Pointer is *T.

type Pointer struct {
	Elem Type
}

func (p *Pointer) String() string { return "*" + p.Elem.String() }

func (p *Pointer) equal(other Type) bool {
	o, ok := other.(*Pointer)
	if !ok {
		return false
	}
	return p.Elem.equal(o.Elem)
}

// Equal reports structural equality of two types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.equal(b)
}

// Debug helper
func DebugType(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T(%s)", t, t.String())
}
