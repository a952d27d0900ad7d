package types_test

import (
	"strings"
	"testing"

	"sable/internal/ast"
	"sable/internal/lexer"
	"sable/internal/parser"
	"sable/internal/types"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			t.Logf("parser error: %s", e)
		}
		t.Fatalf("expected no parser errors, got %d", len(errs))
	}
	return prog
}

func TestCheck_Valid(t *testing.T) {
	input := `
fn main() -> int {
    let a: int = 10;
    let b = a * 2 + 1;
    let msg: string = "total";
    if b > 10 {
        b = b - 1;
    } else {
        b = b + 1;
    }
    while b > 0 {
        b = b - 1;
    }
    return describe(b);
}

fn describe(n: int) -> int {
    if n == 0 {
        return 0;
    }
    return n;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}
}

func TestCheck_LetAnnotationMismatch(t *testing.T) {
	input := `
fn main() {
    let x: bool = 3 + 4;
}
`
	err := types.Check(parse(t, input))
	if err == nil {
		t.Fatal("expected type error, got none")
	}
	if !strings.Contains(err.Error(), "type mismatch in let statement") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// int and string are mutually coercible, so returning a string from a
// function declared to return int is accepted.
func TestCheck_ReturnCoercion(t *testing.T) {
	input := `
fn greeting() -> int {
    return "hello";
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}
}

func TestCheck_ReturnMismatch(t *testing.T) {
	input := `
fn flag() -> int {
    return true;
}
`
	err := types.Check(parse(t, input))
	if err == nil {
		t.Fatal("expected type error, got none")
	}
	if !strings.Contains(err.Error(), "return type mismatch") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Bindings introduced inside a branch persist after it: the environment
// is flat, not scoped.
func TestCheck_BranchBindingPersists(t *testing.T) {
	input := `
fn main() -> int {
    if true {
        let y = 1;
    } else {
        let y = 2;
    }
    return y;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}
}

// Redeclaring a name overwrites its type instead of shadowing.
func TestCheck_RedeclarationOverwrites(t *testing.T) {
	input := `
fn main() {
    let x = 1;
    let x = true;
    let y: bool = x;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}
}

func TestCheck_UndefinedVariable(t *testing.T) {
	input := `
fn main() -> int {
    return missing;
}
`
	err := types.Check(parse(t, input))
	if err == nil {
		t.Fatal("expected type error, got none")
	}
	if !strings.Contains(err.Error(), `undefined variable "missing"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_ConditionMustBeBool(t *testing.T) {
	input := `
fn main() {
    if 1 {
        let x = 0;
    }
}
`
	err := types.Check(parse(t, input))
	if err == nil {
		t.Fatal("expected type error, got none")
	}
	if !strings.Contains(err.Error(), "if condition must be bool") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_Calls(t *testing.T) {
	valid := `
fn scale(x: float) -> float {
    return x * 2.0;
}

fn main() -> float {
    return scale(3);
}
`
	if err := types.Check(parse(t, valid)); err != nil {
		t.Fatalf("int argument should coerce to float parameter: %v", err)
	}

	arity := `
fn scale(x: float) -> float {
    return x;
}

fn main() -> float {
    return scale(1.0, 2.0);
}
`
	err := types.Check(parse(t, arity))
	if err == nil || !strings.Contains(err.Error(), "wrong number of arguments") {
		t.Fatalf("expected arity error, got %v", err)
	}

	badArg := `
fn scale(x: float) -> float {
    return x;
}

fn main() -> float {
    return scale(true);
}
`
	err = types.Check(parse(t, badArg))
	if err == nil || !strings.Contains(err.Error(), "argument 1") {
		t.Fatalf("expected argument type error, got %v", err)
	}

	notAFunc := `
fn main() {
    let f = 1;
    f();
}
`
	err = types.Check(parse(t, notAFunc))
	if err == nil || !strings.Contains(err.Error(), "is not a function") {
		t.Fatalf("expected not-a-function error, got %v", err)
	}
}

// Calls may reference functions declared later in the unit.
func TestCheck_ForwardCall(t *testing.T) {
	input := `
fn main() -> int {
    return later(1);
}

fn later(n: int) -> int {
    return n;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}
}

func TestCheck_Arithmetic(t *testing.T) {
	input := `
fn main() {
    let a: int = 7 % 2;
    let b: float = 1 + 2.5;
    let c: int = 3 * 4;
    let d: bool = 1 < 2;
    let e: bool = true && 1 == 1;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	bad := `
fn main() {
    let x = true + 1;
}
`
	err := types.Check(parse(t, bad))
	if err == nil || !strings.Contains(err.Error(), "operator + expects numeric operands") {
		t.Fatalf("expected numeric-operand error, got %v", err)
	}
}

func TestCheck_ForLoop(t *testing.T) {
	input := `
fn sum() -> int {
    let total = 0;
    for x in [1, 2, 3] {
        total = total + x;
    }
    return total;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	bad := `
fn main() {
    for x in 42 {
        let y = x;
    }
}
`
	err := types.Check(parse(t, bad))
	if err == nil || !strings.Contains(err.Error(), "for iterator must be an array") {
		t.Fatalf("expected iterator error, got %v", err)
	}
}

func TestCheck_Match(t *testing.T) {
	input := `
fn classify(n: int) -> int {
    match n {
        0 => {
            return 0;
        },
        other => {
            return other * 2;
        },
        _ => {
            return 1;
        }
    }
    return 1;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	badLit := `
fn classify(n: int) -> int {
    match n {
        true => {
            return 0;
        }
    }
    return 1;
}
`
	err := types.Check(parse(t, badLit))
	if err == nil || !strings.Contains(err.Error(), "pattern type mismatch") {
		t.Fatalf("expected pattern error, got %v", err)
	}
}

func TestCheck_StructPattern(t *testing.T) {
	input := `
type Point {
    x: int,
    y: int
}

fn quadrant(p: Point) -> int {
    match p {
        Point { x: a, y: b } => {
            if a > 0 && b > 0 {
                return 1;
            }
        }
    }
    return 0;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	badField := `
type Point {
    x: int,
    y: int
}

fn main(p: Point) {
    match p {
        Point { z: a } => {
            let q = a;
        }
    }
}
`
	err := types.Check(parse(t, badField))
	if err == nil || !strings.Contains(err.Error(), `unknown field "z"`) {
		t.Fatalf("expected unknown-field error, got %v", err)
	}
}

func TestCheck_TuplePattern(t *testing.T) {
	input := `
fn main() -> int {
    let pair = (1, true);
    match pair {
        (n, flag) => {
            if flag {
                return n;
            }
        }
    }
    return 0;
}
`
	if err := types.Check(parse(t, input)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	arity := `
fn main() {
    let pair = (1, 2);
    match pair {
        (a, b, c) => {
            let x = a;
        }
    }
}
`
	err := types.Check(parse(t, arity))
	if err == nil || !strings.Contains(err.Error(), "tuple pattern length mismatch") {
		t.Fatalf("expected length error, got %v", err)
	}
}

func TestCheck_PriorityTags(t *testing.T) {
	valid := `
fn worker(n: int) -> int @3 {
    let cache @[1, 2] = n;
    let hot @most_high = 0;
    return cache + hot;
}
`
	if err := types.Check(parse(t, valid)); err != nil {
		t.Fatalf("expected no type errors, got %v", err)
	}

	multiOnFn := `
fn worker() @[1, 2] {
    return;
}
`
	err := types.Check(parse(t, multiOnFn))
	if err == nil || !strings.Contains(err.Error(), "multi-level priority is not allowed on a function") {
		t.Fatalf("expected multi-level error, got %v", err)
	}
}

func TestCheck_UnknownType(t *testing.T) {
	input := `
fn main(p: Mystery) {
    let q = p;
}
`
	err := types.Check(parse(t, input))
	if err == nil || !strings.Contains(err.Error(), `unknown type "Mystery"`) {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}
