package types

// Compatible reports whether a value of type a may stand in for a value
// of type b at an assignment, argument, comparison or return site.
//
// The relation is deliberately looser than Equal: int and float coerce
// both ways, and int/float/bool coerce to and from string. It is not an
// equivalence; callers must re-derive it per pair rather than caching
// transitive closures.
func Compatible(a, b Type) bool {
	if Equal(a, b) {
		return true
	}

	ab, aBasic := a.(*Basic)
	bb, bBasic := b.(*Basic)
	if aBasic && bBasic {
		return basicCompatible(ab.Kind, bb.Kind)
	}

	switch at := a.(type) {
	case *Array:
		bt, ok := b.(*Array)
		return ok && Compatible(at.Elem, bt.Elem)

	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i, e := range at.Elems {
			if !Compatible(e, bt.Elems[i]) {
				return false
			}
		}
		return true

	case *Vector:
		bt, ok := b.(*Vector)
		return ok && at.Dim == bt.Dim && Compatible(at.Elem, bt.Elem)

	case *Matrix:
		bt, ok := b.(*Matrix)
		return ok && at.Rows == bt.Rows && at.Cols == bt.Cols && Compatible(at.Elem, bt.Elem)

	case *Tensor:
		bt, ok := b.(*Tensor)
		if !ok || len(at.Dims) != len(bt.Dims) {
			return false
		}
		for i, d := range at.Dims {
			if d != bt.Dims[i] {
				return false
			}
		}
		return Compatible(at.Elem, bt.Elem)

	case *Quaternion:
		bt, ok := b.(*Quaternion)
		return ok && Compatible(at.Elem, bt.Elem)

	case *Complex:
		bt, ok := b.(*Complex)
		return ok && Compatible(at.Elem, bt.Elem)

	case *Function:
		bt, ok := b.(*Function)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i, p := range at.Params {
			if !Compatible(p, bt.Params[i]) {
				return false
			}
		}
		// Priority tags never coerce.
		return Compatible(at.Result, bt.Result) && at.Priority.Equal(bt.Priority)

	case *Pointer:
		bt, ok := b.(*Pointer)
		return ok && Compatible(at.Elem, bt.Elem)

	case *Named:
		bt, ok := b.(*Named)
		return ok && at.Name == bt.Name
	}

	return false
}

// basicCompatible holds the primitive coercion table: numeric widening/
// narrowing between int and float, and textual coercion between the
// printable scalars and string.
func basicCompatible(a, b BasicKind) bool {
	if a == b {
		return true
	}
	switch {
	case a == BasicInt && b == BasicFloat, a == BasicFloat && b == BasicInt:
		return true
	case a == BasicInt && b == BasicString, a == BasicString && b == BasicInt:
		return true
	case a == BasicFloat && b == BasicString, a == BasicString && b == BasicFloat:
		return true
	case a == BasicBool && b == BasicString, a == BasicString && b == BasicBool:
		return true
	}
	return false
}
