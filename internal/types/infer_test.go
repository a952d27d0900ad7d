package types_test

import (
	"strings"
	"testing"

	"sable/internal/ast"
	"sable/internal/types"
)

// letsByName collects every let statement in the program, keyed by the
// bound name.
func letsByName(prog *ast.Program) map[string]*ast.LetStmt {
	out := make(map[string]*ast.LetStmt)
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.LetStmt:
				out[st.Name] = st
			case *ast.IfStmt:
				walk(st.Then.Stmts)
				if st.Else != nil {
					walk(st.Else.Stmts)
				}
			case *ast.WhileStmt:
				walk(st.Body.Stmts)
			case *ast.ForStmt:
				walk(st.Body.Stmts)
			case *ast.MatchStmt:
				for _, arm := range st.Arms {
					walk(arm.Body.Stmts)
				}
			case *ast.BlockStmt:
				walk(st.Stmts)
			}
		}
	}
	for _, fn := range prog.Funcs {
		walk(fn.Body.Stmts)
	}
	return out
}

func TestInfer_Chain(t *testing.T) {
	prog := parse(t, `
fn main() -> int {
    let x = 1;
    let y = x + 1;
    return y;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["x"]); !types.Equal(got, types.Int) {
		t.Errorf("x inferred as %s, want int", got)
	}
	if got := bindings.TypeOf(lets["y"]); !types.Equal(got, types.Int) {
		t.Errorf("y inferred as %s, want int", got)
	}
}

func TestInfer_Literals(t *testing.T) {
	prog := parse(t, `
fn main() {
    let f = 1.5;
    let s = "hi";
    let b = true;
    let c = 'x';
    let arr = [1, 2, 3];
    let pair = (1, true);
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	wants := map[string]types.Type{
		"f":    types.Float,
		"s":    types.String,
		"b":    types.Bool,
		"c":    types.Char,
		"arr":  &types.Array{Elem: types.Int},
		"pair": &types.Tuple{Elems: []types.Type{types.Int, types.Bool}},
	}
	for name, want := range wants {
		if got := bindings.TypeOf(lets[name]); !types.Equal(got, want) {
			t.Errorf("%s inferred as %s, want %s", name, got, want)
		}
	}
}

// A binding whose initializer names a later one is deferred and resolved
// on a second pass.
func TestInfer_ForwardReference(t *testing.T) {
	prog := parse(t, `
fn main() {
    let a = b;
    let b = 2;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["a"]); !types.Equal(got, types.Int) {
		t.Errorf("a inferred as %s, want int", got)
	}
}

func TestInfer_CallResult(t *testing.T) {
	prog := parse(t, `
fn main() {
    let r = helper(1);
}

fn helper(n: int) -> float {
    return 1.0;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["r"]); !types.Equal(got, types.Float) {
		t.Errorf("r inferred as %s, want float", got)
	}
}

// Mutually-dependent bindings make no progress and must be reported, not
// spun on.
func TestInfer_Circular(t *testing.T) {
	prog := parse(t, `
fn main() {
    let a = b;
    let b = a;
}
`)
	_, err := types.Infer(prog)
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	if !strings.Contains(err.Error(), "cannot infer type of") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Annotated bindings are the checker's business; inference skips them.
func TestInfer_SkipsAnnotated(t *testing.T) {
	prog := parse(t, `
fn main() {
    let x: int = 1;
    let y = x;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["x"]); got != nil {
		t.Errorf("annotated binding should not be recorded, got %s", got)
	}
	if got := bindings.TypeOf(lets["y"]); !types.Equal(got, types.Int) {
		t.Errorf("y inferred as %s, want int", got)
	}
}

// Arithmetic takes the left operand's type tentatively; enforcement is
// left to the checker.
func TestInfer_BinaryTentative(t *testing.T) {
	prog := parse(t, `
fn main() {
    let x = 1.5 + 1;
    let cmp = 1 < 2;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["x"]); !types.Equal(got, types.Float) {
		t.Errorf("x inferred as %s, want float", got)
	}
	if got := bindings.TypeOf(lets["cmp"]); !types.Equal(got, types.Bool) {
		t.Errorf("cmp inferred as %s, want bool", got)
	}
}

// An annotated binding whose initializer cannot stand in for the
// annotation becomes a constraint, and the solver rejects it.
func TestInfer_AnnotationMismatchConstraint(t *testing.T) {
	prog := parse(t, `
fn main() {
    let x: int = true;
}
`)
	_, err := types.Infer(prog)
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	if !strings.Contains(err.Error(), "cannot unify bool with int") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// A tuple constraint decomposes element by element until the solver hits
// the mismatched pair.
func TestInfer_TupleConstraintDecomposition(t *testing.T) {
	prog := parse(t, `
fn main() {
    let p: (int, bool) = (1, 2);
}
`)
	_, err := types.Infer(prog)
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	if !strings.Contains(err.Error(), "cannot unify int with bool") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// A constraint over names with no definition in scope can never make
// progress; the solver reports it instead of looping.
func TestInfer_UnresolvedNamedConstraint(t *testing.T) {
	prog := parse(t, `
fn f(p: Mystery) {
    let x: OtherThing = p;
}
`)
	_, err := types.Infer(prog)
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	if !strings.Contains(err.Error(), "ambiguous or unresolved type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Two bindings of the same defined record type raise no constraint at
// all.
func TestInfer_NamedResolves(t *testing.T) {
	prog := parse(t, `
type Point {
    x: int,
    y: int,
}

fn f(p: Point) {
    let q: Point = p;
}
`)
	if _, err := types.Infer(prog); err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}
}

// Pattern identifiers bind the scrutinee type, so arm bodies can feed
// them into new bindings.
func TestInfer_MatchPatternBinding(t *testing.T) {
	prog := parse(t, `
fn classify(p: (int, bool)) {
    match p {
        (a, b) => {
            let x = a;
            let y = b;
        },
        other => {
            let whole = other;
        },
    }
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["x"]); !types.Equal(got, types.Int) {
		t.Errorf("x inferred as %s, want int", got)
	}
	if got := bindings.TypeOf(lets["y"]); !types.Equal(got, types.Bool) {
		t.Errorf("y inferred as %s, want bool", got)
	}
	want := &types.Tuple{Elems: []types.Type{types.Int, types.Bool}}
	if got := bindings.TypeOf(lets["whole"]); !types.Equal(got, want) {
		t.Errorf("whole inferred as %s, want %s", got, want)
	}
}

// Logical not demands a bool operand and always yields bool.
func TestInfer_UnaryNot(t *testing.T) {
	prog := parse(t, `
fn main() {
    let b = !true;
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["b"]); !types.Equal(got, types.Bool) {
		t.Errorf("b inferred as %s, want bool", got)
	}
}

func TestInfer_UnaryNotRejectsInt(t *testing.T) {
	prog := parse(t, `
fn main() {
    let x = 1;
    let b = !x;
}
`)
	_, err := types.Infer(prog)
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	if !strings.Contains(err.Error(), "cannot unify int with bool") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInfer_ForLoopVariable(t *testing.T) {
	prog := parse(t, `
fn main() {
    for x in [1, 2, 3] {
        let y = x;
    }
}
`)
	bindings, err := types.Infer(prog)
	if err != nil {
		t.Fatalf("expected no inference errors, got %v", err)
	}

	lets := letsByName(prog)
	if got := bindings.TypeOf(lets["y"]); !types.Equal(got, types.Int) {
		t.Errorf("y inferred as %s, want int", got)
	}
}
