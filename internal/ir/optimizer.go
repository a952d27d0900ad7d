package ir

import (
	"fmt"
)

// Optimize rewrites every function in place: constant folding to a
// fixpoint, then dead-code elimination, then removal of redundant
// priority declarations. Folding a constant division or modulo by zero
// is a compile-time error.
func Optimize(mod *Module) error {
	for _, fn := range mod.Functions {
		for {
			changed, err := FoldConstants(fn)
			if err != nil {
				return err
			}
			if !changed {
				break
			}
		}
		EliminateDeadCode(fn)
		DedupPriorities(fn)
	}
	return nil
}

// ---------- Constant folding ----------

// FoldConstants runs one forward pass of constant propagation and
// folding. Known constants are tracked per name and invalidated at
// every label, since a branch target may be reached with different
// values.
func FoldConstants(fn *Function) (bool, error) {
	consts := make(map[string]Value)
	changed := false

	resolve := func(v Value) Value {
		if v.Kind == ValRef {
			if c, ok := consts[v.Ref]; ok {
				changed = true
				return c
			}
		}
		return v
	}

	for idx := range fn.Instrs {
		in := &fn.Instrs[idx]
		switch in.Op {
		case OpLabel:
			consts = make(map[string]Value)

		case OpAssign:
			in.Src = resolve(in.Src)
			if in.Src.IsConst() {
				consts[in.Dest] = in.Src
			} else {
				delete(consts, in.Dest)
			}

		case OpStore:
			in.Src = resolve(in.Src)
			if in.Src.IsConst() {
				consts[in.Dest] = in.Src
			} else {
				delete(consts, in.Dest)
			}

		case OpLoad:
			if c, ok := consts[in.Src.Ref]; ok {
				*in = Instr{Op: OpAssign, Dest: in.Dest, Src: c}
				consts[in.Dest] = c
				changed = true
			} else {
				delete(consts, in.Dest)
			}

		case OpBin:
			in.LHS = resolve(in.LHS)
			in.RHS = resolve(in.RHS)
			if in.LHS.IsConst() && in.RHS.IsConst() {
				folded, ok, err := evalBin(in.Bin, in.LHS, in.RHS)
				if err != nil {
					return false, fmt.Errorf("%s: %w", fn.Name, err)
				}
				if ok {
					*in = Instr{Op: OpAssign, Dest: in.Dest, Src: folded}
					consts[in.Dest] = folded
					changed = true
					continue
				}
			}
			delete(consts, in.Dest)

		case OpUn:
			in.Src = resolve(in.Src)
			if in.Src.IsConst() {
				if folded, ok := evalUn(in.Un, in.Src); ok {
					*in = Instr{Op: OpAssign, Dest: in.Dest, Src: folded}
					consts[in.Dest] = folded
					changed = true
					continue
				}
			}
			delete(consts, in.Dest)

		case OpCall:
			for i := range in.Args {
				in.Args[i] = resolve(in.Args[i])
			}
			delete(consts, in.Dest)

		case OpCondJump:
			in.Src = resolve(in.Src)
			if in.Src.Kind == ValBool {
				target := in.Else
				if in.Src.Bool {
					target = in.Label
				}
				*in = Instr{Op: OpJump, Label: target}
				changed = true
			}

		case OpRet:
			in.Src = resolve(in.Src)
		}
	}
	return changed, nil
}

// evalBin folds a binary operation over two constants. The second result
// is false when the operand combination is not foldable.
func evalBin(op BinOp, a, b Value) (Value, bool, error) {
	// int x int
	if a.Kind == ValInt && b.Kind == ValInt {
		switch op {
		case Add:
			return IntVal(a.Int + b.Int), true, nil
		case Sub:
			return IntVal(a.Int - b.Int), true, nil
		case Mul:
			return IntVal(a.Int * b.Int), true, nil
		case Div:
			if b.Int == 0 {
				return Value{}, false, fmt.Errorf("division by zero in constant expression")
			}
			return IntVal(a.Int / b.Int), true, nil
		case Mod:
			if b.Int == 0 {
				return Value{}, false, fmt.Errorf("modulo by zero in constant expression")
			}
			return IntVal(a.Int % b.Int), true, nil
		case Eq:
			return BoolVal(a.Int == b.Int), true, nil
		case Ne:
			return BoolVal(a.Int != b.Int), true, nil
		case Lt:
			return BoolVal(a.Int < b.Int), true, nil
		case Le:
			return BoolVal(a.Int <= b.Int), true, nil
		case Gt:
			return BoolVal(a.Int > b.Int), true, nil
		case Ge:
			return BoolVal(a.Int >= b.Int), true, nil
		}
		return Value{}, false, nil
	}

	// numeric with at least one float
	if isNumericVal(a) && isNumericVal(b) {
		fa, fb := floatOf(a), floatOf(b)
		switch op {
		case Add:
			return FloatVal(fa + fb), true, nil
		case Sub:
			return FloatVal(fa - fb), true, nil
		case Mul:
			return FloatVal(fa * fb), true, nil
		case Div:
			if fb == 0 {
				return Value{}, false, fmt.Errorf("division by zero in constant expression")
			}
			return FloatVal(fa / fb), true, nil
		case Eq:
			return BoolVal(fa == fb), true, nil
		case Ne:
			return BoolVal(fa != fb), true, nil
		case Lt:
			return BoolVal(fa < fb), true, nil
		case Le:
			return BoolVal(fa <= fb), true, nil
		case Gt:
			return BoolVal(fa > fb), true, nil
		case Ge:
			return BoolVal(fa >= fb), true, nil
		}
		return Value{}, false, nil
	}

	if a.Kind == ValBool && b.Kind == ValBool {
		switch op {
		case And:
			return BoolVal(a.Bool && b.Bool), true, nil
		case Or:
			return BoolVal(a.Bool || b.Bool), true, nil
		case Eq:
			return BoolVal(a.Bool == b.Bool), true, nil
		case Ne:
			return BoolVal(a.Bool != b.Bool), true, nil
		}
		return Value{}, false, nil
	}

	if a.Kind == ValString && b.Kind == ValString {
		switch op {
		case Add:
			return StringVal(a.Str + b.Str), true, nil
		case Eq:
			return BoolVal(a.Str == b.Str), true, nil
		case Ne:
			return BoolVal(a.Str != b.Str), true, nil
		}
		return Value{}, false, nil
	}

	return Value{}, false, nil
}

func evalUn(op UnOp, v Value) (Value, bool) {
	switch op {
	case Neg:
		switch v.Kind {
		case ValInt:
			return IntVal(-v.Int), true
		case ValFloat:
			return FloatVal(-v.Float), true
		}
	case Not:
		if v.Kind == ValBool {
			return BoolVal(!v.Bool), true
		}
	}
	return Value{}, false
}

func isNumericVal(v Value) bool {
	return v.Kind == ValInt || v.Kind == ValFloat
}

func floatOf(v Value) float64 {
	if v.Kind == ValInt {
		return float64(v.Int)
	}
	return v.Float
}

// ---------- Dead-code elimination ----------

// EliminateDeadCode removes pure instructions whose result is never
// used. Liveness is collected backward and iterated to a fixpoint so
// that uses reached through loop back edges are seen; the set only ever
// grows, so the iteration terminates.
func EliminateDeadCode(fn *Function) bool {
	live := make(map[string]bool)
	for {
		grew := false
		for idx := len(fn.Instrs) - 1; idx >= 0; idx-- {
			in := fn.Instrs[idx]
			if !keepsResult(in, live) {
				continue
			}
			for _, ref := range uses(in) {
				if !live[ref] {
					live[ref] = true
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	var kept []Instr
	removed := false
	for _, in := range fn.Instrs {
		if keepsResult(in, live) {
			kept = append(kept, in)
		} else {
			removed = true
		}
	}
	fn.Instrs = kept
	return removed
}

// keepsResult reports whether an instruction survives elimination given
// the current live set. Control flow, returns and calls are always
// effectful; everything else lives only through its destination.
func keepsResult(in Instr, live map[string]bool) bool {
	switch in.Op {
	case OpRet, OpJump, OpCondJump, OpLabel, OpCall:
		return true
	case OpAlloca, OpStore, OpLoad, OpAssign, OpBin, OpUn, OpPriority:
		return live[in.Dest]
	default:
		return true
	}
}

// uses lists the names an instruction reads.
func uses(in Instr) []string {
	var out []string
	add := func(v Value) {
		if v.Kind == ValRef {
			out = append(out, v.Ref)
		}
	}
	switch in.Op {
	case OpStore, OpAssign, OpUn, OpRet, OpCondJump:
		add(in.Src)
	case OpLoad:
		add(in.Src)
	case OpBin:
		add(in.LHS)
		add(in.RHS)
	case OpCall:
		for _, a := range in.Args {
			add(a)
		}
	}
	return out
}

// ---------- Priority redundancy ----------

// DedupPriorities drops a priority declaration that re-states the
// priority already in effect for the same slot.
func DedupPriorities(fn *Function) bool {
	current := make(map[string]string)
	var kept []Instr
	removed := false

	for _, in := range fn.Instrs {
		if in.Op == OpPriority {
			repr := in.Priority.String()
			if current[in.Dest] == repr {
				removed = true
				continue
			}
			current[in.Dest] = repr
		}
		kept = append(kept, in)
	}
	fn.Instrs = kept
	return removed
}
