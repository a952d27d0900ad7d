package types

import (
	"sable/internal/ast"
	"sable/internal/token"
)

// Inference assigns types to unannotated let bindings. Unlike the
// checker it tolerates forward references: a binding whose initializer
// cannot be typed yet is queued as a constraint and retried on the next
// pass. Solving stops when the queue drains, or errors when a full pass
// resolves nothing.

// Bindings is the result of inference: the resolved type of every
// unannotated let in the program.
type Bindings struct {
	Lets map[*ast.LetStmt]Type
}

// TypeOf returns the inferred type for a let binding, or nil if the
// binding was annotated or never seen.
func (b *Bindings) TypeOf(let *ast.LetStmt) Type {
	return b.Lets[let]
}

// constraint is a pending "this binding has the type of this expression"
// obligation carried between solver passes.
type constraint struct {
	let *ast.LetStmt
	env map[string]Type
}

type Inferencer struct {
	typeDefs map[string]*ast.TypeDef
	bindings *Bindings
	queue    []constraint
	cons     []Constraint
	result   Type
}

func NewInferencer() *Inferencer {
	return &Inferencer{
		typeDefs: make(map[string]*ast.TypeDef),
		bindings: &Bindings{Lets: make(map[*ast.LetStmt]Type)},
	}
}

// Infer resolves the type of every unannotated let binding in the
// program.
func Infer(prog *ast.Program) (*Bindings, error) {
	inf := NewInferencer()

	for _, td := range prog.TypeDefs {
		inf.typeDefs[td.Name] = td
	}

	sigs := make(map[string]Type, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		ft, err := inf.signature(fn)
		if err != nil {
			return nil, err
		}
		sigs[fn.Name] = ft
	}

	for _, fn := range prog.Funcs {
		env := make(map[string]Type, len(sigs)+len(fn.Params))
		for name, t := range sigs {
			env[name] = t
		}
		for _, p := range fn.Params {
			pt, err := typeFromNode(p.Type, inf.typeDefs, false)
			if err != nil {
				return nil, err
			}
			env[p.Name] = pt
		}
		inf.result = sigs[fn.Name].(*Function).Result
		if err := inf.walkStmts(fn.Body.Stmts, env); err != nil {
			return nil, err
		}
	}

	if err := inf.solve(); err != nil {
		return nil, err
	}

	defined := make(map[string]bool, len(inf.typeDefs))
	for name := range inf.typeDefs {
		defined[name] = true
	}
	if err := solveConstraints(inf.cons, defined); err != nil {
		return nil, err
	}
	return inf.bindings, nil
}

// constrain records an obligation the solver must discharge. Obligations
// are only recorded where the judgement is already suspect; ordinary
// compatible terms never reach the queue.
func (inf *Inferencer) constrain(l, r Type, pos token.Position) {
	if l == nil || r == nil {
		return
	}
	inf.cons = append(inf.cons, Constraint{Left: l, Right: r, Pos: pos})
}

func (inf *Inferencer) signature(fn *ast.FnDecl) (Type, error) {
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := typeFromNode(p.Type, inf.typeDefs, false)
		if err != nil {
			return nil, err
		}
		params[i] = pt
	}
	ret, err := typeFromNode(fn.Return, inf.typeDefs, false)
	if err != nil {
		return nil, err
	}
	prio, err := funcPriorityFromTag(fn.Priority)
	if err != nil {
		return nil, err
	}
	return &Function{Params: params, Result: ret, Priority: prio}, nil
}

// walkStmts records the type of each let binding it can resolve and
// queues the rest. The flat environment mirrors the checker: branch
// bindings persist and redeclaration overwrites.
func (inf *Inferencer) walkStmts(stmts []ast.Stmt, env map[string]Type) error {
	for _, s := range stmts {
		if err := inf.walkStmt(s, env); err != nil {
			return err
		}
	}
	return nil
}

func (inf *Inferencer) walkStmt(s ast.Stmt, env map[string]Type) error {
	switch st := s.(type) {
	case *ast.LetStmt:
		if st.Type != nil {
			annot, err := typeFromNode(st.Type, inf.typeDefs, false)
			if err != nil {
				return err
			}
			if t, ok := inf.inferExpr(st.Value, env); ok && !Compatible(t, annot) {
				inf.constrain(t, annot, st.Pos())
			}
			env[st.Name] = annot
			return nil
		}
		if t, ok := inf.inferExpr(st.Value, env); ok {
			env[st.Name] = t
			inf.bindings.Lets[st] = t
			return nil
		}
		inf.queue = append(inf.queue, constraint{let: st, env: env})
		return nil

	case *ast.IfStmt:
		if t, ok := inf.inferExpr(st.Cond, env); ok && !Compatible(t, Bool) {
			inf.constrain(t, Bool, st.Cond.Pos())
		}
		if err := inf.walkStmts(st.Then.Stmts, env); err != nil {
			return err
		}
		if st.Else != nil {
			return inf.walkStmts(st.Else.Stmts, env)
		}
		return nil

	case *ast.WhileStmt:
		if t, ok := inf.inferExpr(st.Cond, env); ok && !Compatible(t, Bool) {
			inf.constrain(t, Bool, st.Cond.Pos())
		}
		return inf.walkStmts(st.Body.Stmts, env)

	case *ast.ReturnStmt:
		if st.Result != nil {
			if t, ok := inf.inferExpr(st.Result, env); ok && !Compatible(t, inf.result) {
				inf.constrain(t, inf.result, st.Result.Pos())
			}
		}
		return nil

	case *ast.ForStmt:
		if it, ok := inf.inferExpr(st.Iterator, env); ok {
			if arr, ok := it.(*Array); ok {
				env[st.Var] = arr.Elem
			}
		}
		return inf.walkStmts(st.Body.Stmts, env)

	case *ast.MatchStmt:
		val, known := inf.inferExpr(st.Value, env)
		for _, arm := range st.Arms {
			if known {
				inf.inferPattern(arm.Pattern, val, env)
			}
			if err := inf.walkStmts(arm.Body.Stmts, env); err != nil {
				return err
			}
		}
		return nil

	case *ast.BlockStmt:
		return inf.walkStmts(st.Stmts, env)

	default:
		return nil
	}
}

// inferPattern binds pattern identifiers against the scrutinee type so
// arm bodies can use them. A suspect literal pair becomes a constraint;
// shape mismatches are left for the checker.
func (inf *Inferencer) inferPattern(p ast.Pattern, valType Type, env map[string]Type) {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		env[pat.Name] = valType

	case *ast.LiteralPattern:
		if t, ok := inf.inferExpr(pat.Value, env); ok && !Compatible(t, valType) {
			inf.constrain(t, valType, pat.Pos())
		}

	case *ast.TuplePattern:
		tup, ok := valType.(*Tuple)
		if !ok || len(pat.Elems) != len(tup.Elems) {
			return
		}
		for i, sub := range pat.Elems {
			inf.inferPattern(sub, tup.Elems[i], env)
		}

	case *ast.StructPattern:
		td, ok := inf.typeDefs[pat.Name]
		if !ok {
			return
		}
		fieldTypes := make(map[string]Type, len(td.Fields))
		for _, f := range td.Fields {
			ft, err := typeFromNode(f.Type, inf.typeDefs, false)
			if err != nil {
				continue
			}
			fieldTypes[f.Name] = ft
		}
		for _, fp := range pat.Fields {
			if ft, ok := fieldTypes[fp.Name]; ok {
				inf.inferPattern(fp.Pattern, ft, env)
			}
		}
	}
}

// solve retries queued constraints until the queue drains. A pass that
// resolves nothing means the remaining bindings are circular or refer to
// names that never materialize, which is an error.
func (inf *Inferencer) solve() error {
	for len(inf.queue) > 0 {
		var remaining []constraint
		progress := false
		for _, con := range inf.queue {
			t, ok := inf.inferExpr(con.let.Value, con.env)
			if !ok {
				remaining = append(remaining, con)
				continue
			}
			con.env[con.let.Name] = t
			inf.bindings.Lets[con.let] = t
			progress = true
		}
		if !progress {
			first := remaining[0]
			return errorf(first.let.Pos(), "cannot infer type of %q", first.let.Name)
		}
		inf.queue = remaining
	}
	return nil
}

// inferExpr computes a tentative type for an expression. The second
// result is false when the expression depends on a name whose type is
// not yet known.
func (inf *Inferencer) inferExpr(e ast.Expr, env map[string]Type) (Type, bool) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return Int, true
	case *ast.FloatLiteral:
		return Float, true
	case *ast.StringLiteral:
		return String, true
	case *ast.CharLiteral:
		return Char, true
	case *ast.BoolLiteral:
		return Bool, true

	case *ast.IdentExpr:
		t, ok := env[ex.Name]
		return t, ok

	case *ast.ArrayLiteral:
		if len(ex.Elements) == 0 {
			return nil, false
		}
		elem, ok := inf.inferExpr(ex.Elements[0], env)
		if !ok {
			return nil, false
		}
		return &Array{Elem: elem}, true

	case *ast.TupleLiteral:
		elems := make([]Type, len(ex.Elements))
		for i, el := range ex.Elements {
			t, ok := inf.inferExpr(el, env)
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return &Tuple{Elems: elems}, true

	case *ast.BinaryExpr:
		return inf.inferBinary(ex, env)

	case *ast.UnaryExpr:
		t, ok := inf.inferExpr(ex.X, env)
		if ex.Op == token.Bang {
			if ok && !Equal(t, Bool) {
				inf.constrain(t, Bool, ex.X.Pos())
			}
			return Bool, true
		}
		return t, ok

	case *ast.CallExpr:
		t, ok := env[ex.Callee]
		if !ok {
			return nil, false
		}
		fn, ok := t.(*Function)
		if !ok {
			return nil, false
		}
		for i, arg := range ex.Args {
			if i >= len(fn.Params) {
				break
			}
			if at, ok := inf.inferExpr(arg, env); ok && !Compatible(at, fn.Params[i]) {
				inf.constrain(at, fn.Params[i], arg.Pos())
			}
		}
		return fn.Result, true

	case *ast.AssignExpr:
		if target, ok := env[ex.Target]; ok {
			if vt, ok := inf.inferExpr(ex.Value, env); ok && !Compatible(vt, target) {
				inf.constrain(vt, target, ex.Pos())
			}
		}
		return Unit, true

	default:
		return nil, false
	}
}

// inferBinary returns a tentative type without enforcing operand rules
// on the spot: a suspect operand pair becomes a constraint and the walk
// continues. Arithmetic takes the left operand's type when known,
// falling back to the right's. Comparisons and logical operators are
// always bool.
func (inf *Inferencer) inferBinary(b *ast.BinaryExpr, env map[string]Type) (Type, bool) {
	left, lok := inf.inferExpr(b.Left, env)
	right, rok := inf.inferExpr(b.Right, env)

	switch b.Op {
	case token.AndAnd, token.OrOr:
		if lok && !Equal(left, Bool) {
			inf.constrain(left, Bool, b.Left.Pos())
		}
		if rok && !Equal(right, Bool) {
			inf.constrain(right, Bool, b.Right.Pos())
		}
		return Bool, true

	case token.Eq, token.NotEq:
		if lok && rok && !Compatible(left, right) {
			inf.constrain(left, right, b.Pos())
		}
		return Bool, true

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if lok && rok && (!IsNumeric(left) || !IsNumeric(right)) {
			inf.constrain(left, right, b.Pos())
		}
		return Bool, true
	}

	if lok && rok && (!IsNumeric(left) || !IsNumeric(right)) {
		inf.constrain(left, right, b.Pos())
	}
	if lok {
		return left, true
	}
	return right, rok
}
