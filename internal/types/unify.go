package types

import (
	"sable/internal/token"
)

// Constraint is a deferred equality obligation between two type terms,
// recorded where the checker would have failed outright.
type Constraint struct {
	Left  Type
	Right Type
	Pos   token.Position
}

// solveConstraints drains the queue by unification. Each constraint gets
// one reduction step per pass; derived sub-constraints go back on the
// queue. Every successful reduction strictly shrinks total term size, so
// a full pass with no reduction means the remainder can never resolve
// and is reported instead of looped on.
func solveConstraints(cons []Constraint, defined map[string]bool) error {
	for len(cons) > 0 {
		var next []Constraint
		progress := false
		for _, c := range cons {
			derived, reduced, err := reduce(c, defined)
			if err != nil {
				return err
			}
			if reduced {
				progress = true
				next = append(next, derived...)
			} else {
				next = append(next, c)
			}
		}
		if !progress {
			c := next[0]
			return errorf(c.Pos, "ambiguous or unresolved type: cannot unify %s with %s",
				c.Left, c.Right)
		}
		cons = next
	}
	return nil
}

// reduce performs one unification step. The second result is false when
// the constraint must be deferred to a later pass.
func reduce(c Constraint, defined map[string]bool) ([]Constraint, bool, error) {
	l, r := c.Left, c.Right

	if Equal(l, r) {
		return nil, true, nil
	}

	// Named terms are nominal: two different defined names never unify,
	// and an undefined name may still gain a definition, so it defers.
	ln, lNamed := l.(*Named)
	rn, rNamed := r.(*Named)
	if lNamed || rNamed {
		if (lNamed && !defined[ln.Name]) || (rNamed && !defined[rn.Name]) {
			return nil, false, nil
		}
		return nil, false, errorf(c.Pos, "cannot unify %s with %s", l, r)
	}

	switch lt := l.(type) {
	case *Array:
		if rt, ok := r.(*Array); ok {
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Tuple:
		rt, ok := r.(*Tuple)
		if !ok {
			break
		}
		if len(lt.Elems) != len(rt.Elems) {
			return nil, false, errorf(c.Pos, "cannot unify %s with %s: arity mismatch", l, r)
		}
		// One step only: split off the first differing position and
		// re-queue the remainder for the next pass.
		for i := range lt.Elems {
			if Equal(lt.Elems[i], rt.Elems[i]) {
				continue
			}
			derived := []Constraint{{Left: lt.Elems[i], Right: rt.Elems[i], Pos: c.Pos}}
			if i+1 < len(lt.Elems) {
				derived = append(derived, Constraint{
					Left:  &Tuple{Elems: lt.Elems[i+1:]},
					Right: &Tuple{Elems: rt.Elems[i+1:]},
					Pos:   c.Pos,
				})
			}
			return derived, true, nil
		}
		return nil, true, nil

	case *Vector:
		if rt, ok := r.(*Vector); ok {
			if lt.Dim != rt.Dim {
				return nil, false, errorf(c.Pos, "cannot unify %s with %s: dimension mismatch", l, r)
			}
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Matrix:
		if rt, ok := r.(*Matrix); ok {
			if lt.Rows != rt.Rows || lt.Cols != rt.Cols {
				return nil, false, errorf(c.Pos, "cannot unify %s with %s: shape mismatch", l, r)
			}
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Tensor:
		if rt, ok := r.(*Tensor); ok {
			if len(lt.Dims) != len(rt.Dims) {
				return nil, false, errorf(c.Pos, "cannot unify %s with %s: shape mismatch", l, r)
			}
			for i, d := range lt.Dims {
				if d != rt.Dims[i] {
					return nil, false, errorf(c.Pos, "cannot unify %s with %s: shape mismatch", l, r)
				}
			}
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Quaternion:
		if rt, ok := r.(*Quaternion); ok {
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Complex:
		if rt, ok := r.(*Complex); ok {
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Pointer:
		if rt, ok := r.(*Pointer); ok {
			return []Constraint{{Left: lt.Elem, Right: rt.Elem, Pos: c.Pos}}, true, nil
		}

	case *Function:
		rt, ok := r.(*Function)
		if !ok {
			break
		}
		if len(lt.Params) != len(rt.Params) {
			return nil, false, errorf(c.Pos, "cannot unify %s with %s: arity mismatch", l, r)
		}
		// Priority tags are part of the type; a mismatch is a hard
		// failure, never a coercion.
		if !lt.Priority.Equal(rt.Priority) {
			return nil, false, errorf(c.Pos, "cannot unify %s with %s: priority mismatch", l, r)
		}
		derived := make([]Constraint, 0, len(lt.Params)+1)
		for i := range lt.Params {
			derived = append(derived, Constraint{Left: lt.Params[i], Right: rt.Params[i], Pos: c.Pos})
		}
		derived = append(derived, Constraint{Left: lt.Result, Right: rt.Result, Pos: c.Pos})
		return derived, true, nil
	}

	return nil, false, errorf(c.Pos, "cannot unify %s with %s", l, r)
}
