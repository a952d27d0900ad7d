package ir_test

import (
	"strings"
	"testing"

	"sable/internal/ir"
	"sable/internal/types"
)

func optimize(t *testing.T, input string) *ir.Module {
	t.Helper()
	mod := lower(t, input)
	if err := ir.Optimize(mod); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	return mod
}

// A chain of constant bindings folds all the way down to the return.
func TestOptimize_FoldsConstantChain(t *testing.T) {
	mod := optimize(t, `
fn main() -> int {
    let a = 5;
    let b = a * 4;
    return b;
}
`)
	fn := mod.Lookup("main")

	if n := countOps(fn, ir.OpBin); n != 0 {
		t.Errorf("expected all arithmetic folded, %d ops remain:\n%s", n, fn)
	}
	if len(fn.Instrs) != 1 {
		t.Fatalf("expected a lone ret, got:\n%s", fn)
	}
	ret := fn.Instrs[0]
	if ret.Op != ir.OpRet || ret.Src.Kind != ir.ValInt || ret.Src.Int != 20 {
		t.Errorf("expected ret 20, got %s", ret)
	}
}

// Folding alone (no elimination) rewrites chained definitions into
// direct constant stores.
func TestFoldConstants_Chained(t *testing.T) {
	fn := &ir.Function{
		Name: "main",
		Instrs: []ir.Instr{
			{Op: ir.OpBin, Dest: "t0", Bin: ir.Add, LHS: ir.IntVal(2), RHS: ir.IntVal(3)},
			{Op: ir.OpStore, Dest: "a", Src: ir.RefVal("t0")},
			{Op: ir.OpLoad, Dest: "t1", Src: ir.RefVal("a")},
			{Op: ir.OpBin, Dest: "t2", Bin: ir.Mul, LHS: ir.RefVal("t1"), RHS: ir.IntVal(4)},
			{Op: ir.OpStore, Dest: "b", Src: ir.RefVal("t2")},
		},
	}
	for {
		changed, err := ir.FoldConstants(fn)
		if err != nil {
			t.Fatalf("fold failed: %v", err)
		}
		if !changed {
			break
		}
	}

	var stores []ir.Instr
	for _, in := range fn.Instrs {
		if in.Op == ir.OpStore {
			stores = append(stores, in)
		}
	}
	if len(stores) != 2 {
		t.Fatalf("expected 2 stores, got:\n%s", fn)
	}
	if stores[0].Dest != "a" || stores[0].Src.Kind != ir.ValInt || stores[0].Src.Int != 5 {
		t.Errorf("expected store a, 5, got %s", stores[0])
	}
	if stores[1].Dest != "b" || stores[1].Src.Kind != ir.ValInt || stores[1].Src.Int != 20 {
		t.Errorf("expected store b, 20, got %s", stores[1])
	}
}

func TestOptimize_FoldsFloatsAndBools(t *testing.T) {
	mod := optimize(t, `
fn main() -> float {
    let x = 1.5 * 2.0 + 1;
    return x;
}
`)
	fn := mod.Lookup("main")
	ret := fn.Instrs[len(fn.Instrs)-1]
	if ret.Src.Kind != ir.ValFloat || ret.Src.Float != 4.0 {
		t.Errorf("expected ret 4.0, got %s", ret)
	}
}

func TestOptimize_DivisionByZero(t *testing.T) {
	mod := lower(t, `
fn main() -> int {
    let x = 1 / 0;
    return x;
}
`)
	err := ir.Optimize(mod)
	if err == nil || !strings.Contains(err.Error(), "division by zero in constant expression") {
		t.Fatalf("expected division-by-zero error, got %v", err)
	}
}

func TestOptimize_ModuloByZero(t *testing.T) {
	mod := lower(t, `
fn main() -> int {
    let x = 7 % 0;
    return x;
}
`)
	err := ir.Optimize(mod)
	if err == nil || !strings.Contains(err.Error(), "modulo by zero in constant expression") {
		t.Fatalf("expected modulo-by-zero error, got %v", err)
	}
}

// Runtime division stays untouched: only constant operands fold.
func TestOptimize_KeepsRuntimeArithmetic(t *testing.T) {
	mod := optimize(t, `
fn inc(n: int) -> int {
    return n + 1;
}
`)
	fn := mod.Lookup("inc")
	if countOps(fn, ir.OpBin) != 1 {
		t.Errorf("runtime arithmetic must survive:\n%s", fn)
	}
}

// A binding that is never read disappears, slot and store included.
func TestOptimize_RemovesDeadBinding(t *testing.T) {
	mod := optimize(t, `
fn main() -> int {
    let x = 1;
    return 2;
}
`)
	fn := mod.Lookup("main")

	if len(fn.Instrs) != 1 {
		t.Fatalf("expected a lone ret, got:\n%s", fn)
	}
	if fn.Instrs[0].Op != ir.OpRet {
		t.Errorf("expected ret, got %s", fn.Instrs[0])
	}
}

// A variable read inside a loop body must survive: its uses are only
// visible across the back edge.
func TestOptimize_KeepsLoopCarriedVariable(t *testing.T) {
	mod := optimize(t, `
fn count(limit: int) -> int {
    let i = 0;
    while i < limit {
        i = i + 1;
    }
    return i;
}
`)
	fn := mod.Lookup("count")

	stores := countOps(fn, ir.OpStore)
	if stores != 2 {
		t.Errorf("loop-carried stores must survive, got %d:\n%s", stores, fn)
	}
}

// Calls are effectful and must never be eliminated, even when the result
// is unused.
func TestOptimize_KeepsCalls(t *testing.T) {
	mod := optimize(t, `
fn main() {
    log_event(1);
}

fn log_event(n: int) {
    let x = n;
}
`)
	fn := mod.Lookup("main")
	if countOps(fn, ir.OpCall) != 1 {
		t.Errorf("call must survive:\n%s", fn)
	}
}

func TestOptimize_FoldsConstantBranch(t *testing.T) {
	mod := optimize(t, `
fn main() -> int {
    if true {
        return 1;
    }
    return 2;
}
`)
	fn := mod.Lookup("main")
	if countOps(fn, ir.OpCondJump) != 0 {
		t.Errorf("constant branch must fold to a jump:\n%s", fn)
	}
	if countOps(fn, ir.OpJump) == 0 {
		t.Errorf("expected an unconditional jump:\n%s", fn)
	}
}

func prio(levels ...int) *types.MemPriority {
	return &types.MemPriority{Class: types.ClassLevel, Levels: levels}
}

func TestOptimize_DedupsPriorities(t *testing.T) {
	fn := &ir.Function{
		Name:   "worker",
		Params: []string{"n"},
		Instrs: []ir.Instr{
			{Op: ir.OpAlloca, Dest: "x"},
			{Op: ir.OpPriority, Dest: "x", Priority: prio(3)},
			{Op: ir.OpStore, Dest: "x", Src: ir.RefVal("n")},
			{Op: ir.OpPriority, Dest: "x", Priority: prio(3)},
			{Op: ir.OpLoad, Dest: "t0", Src: ir.RefVal("x")},
			{Op: ir.OpRet, Src: ir.RefVal("t0")},
		},
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}
	if err := ir.Optimize(mod); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	if n := countOps(fn, ir.OpPriority); n != 1 {
		t.Errorf("expected one priority declaration after dedup, got %d:\n%s", n, fn)
	}
}

func TestOptimize_KeepsDistinctPriorities(t *testing.T) {
	fn := &ir.Function{
		Name:   "worker",
		Params: []string{"n"},
		Instrs: []ir.Instr{
			{Op: ir.OpAlloca, Dest: "x"},
			{Op: ir.OpPriority, Dest: "x", Priority: prio(3)},
			{Op: ir.OpStore, Dest: "x", Src: ir.RefVal("n")},
			{Op: ir.OpPriority, Dest: "x", Priority: prio(5)},
			{Op: ir.OpLoad, Dest: "t0", Src: ir.RefVal("x")},
			{Op: ir.OpRet, Src: ir.RefVal("t0")},
		},
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}
	if err := ir.Optimize(mod); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	if n := countOps(fn, ir.OpPriority); n != 2 {
		t.Errorf("distinct priorities must both survive, got %d:\n%s", n, fn)
	}
}
