package types

import (
	"sable/internal/ast"
	"sable/internal/token"
)

// Checker validates a fully-parsed program in a single pass. The first
// inconsistency aborts the whole check; there is no partial recovery,
// because continuing under an unsound assumption helps nobody.
//
// The environment is one flat mapping per function: a let inside a
// branch persists after the branch, and redeclaration overwrites rather
// than shadows. That is the language's documented behavior, pinned by
// tests; see DESIGN.md before "fixing" it into a scope stack.
type Checker struct {
	env      map[string]Type
	current  *Function
	typeDefs map[string]*ast.TypeDef
}

func NewChecker() *Checker {
	return &Checker{
		env:      make(map[string]Type),
		typeDefs: make(map[string]*ast.TypeDef),
	}
}

// Check validates every function in the program against the type rules,
// returning the first violation found.
func Check(prog *ast.Program) error {
	c := NewChecker()

	// Type-definition table is built up front, before any body is
	// processed, so struct patterns and Named annotations resolve
	// regardless of declaration order.
	for _, td := range prog.TypeDefs {
		if _, exists := c.typeDefs[td.Name]; exists {
			return errorf(td.Pos(), "redefinition of type %q", td.Name)
		}
		c.typeDefs[td.Name] = td
	}

	// Function signatures are registered before any body so calls may
	// reference functions declared later in the unit.
	sigs := make(map[string]*Function, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		ft, err := c.functionType(fn)
		if err != nil {
			return err
		}
		if _, exists := sigs[fn.Name]; exists {
			return errorf(fn.Pos(), "redefinition of function %q", fn.Name)
		}
		sigs[fn.Name] = ft
	}

	for _, fn := range prog.Funcs {
		if err := c.checkFn(fn, sigs); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) functionType(fn *ast.FnDecl) (*Function, error) {
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := c.typeOf(p.Type)
		if err != nil {
			return nil, err
		}
		params[i] = pt
	}
	ret, err := c.typeOf(fn.Return)
	if err != nil {
		return nil, err
	}
	prio, err := funcPriorityFromTag(fn.Priority)
	if err != nil {
		return nil, err
	}
	return &Function{Params: params, Result: ret, Priority: prio}, nil
}

func (c *Checker) checkFn(fn *ast.FnDecl, sigs map[string]*Function) error {
	// Fresh flat environment per function, seeded with the unit's
	// function signatures so calls resolve.
	c.env = make(map[string]Type, len(sigs)+len(fn.Params))
	for name, ft := range sigs {
		c.env[name] = ft
	}

	c.current = sigs[fn.Name]

	for i, p := range fn.Params {
		c.env[p.Name] = c.current.Params[i]
	}

	if err := c.checkStmts(fn.Body.Stmts); err != nil {
		return err
	}
	c.current = nil
	return nil
}

func (c *Checker) typeOf(tn ast.TypeNode) (Type, error) {
	return typeFromNode(tn, c.typeDefs, true)
}

// ----- Statements -----

func (c *Checker) checkStmts(stmts []ast.Stmt) error {
	for _, st := range stmts {
		if err := c.checkStmt(st); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.LetStmt:
		return c.checkLet(st)
	case *ast.ReturnStmt:
		return c.checkReturn(st)
	case *ast.IfStmt:
		return c.checkIf(st)
	case *ast.WhileStmt:
		return c.checkWhile(st)
	case *ast.ForStmt:
		return c.checkFor(st)
	case *ast.MatchStmt:
		return c.checkMatch(st)
	case *ast.ExprStmt:
		_, err := c.checkExpr(st.Expression)
		return err
	case *ast.BlockStmt:
		return c.checkStmts(st.Stmts)
	default:
		return errorf(s.Pos(), "unsupported statement %T", s)
	}
}

func (c *Checker) checkLet(s *ast.LetStmt) error {
	valType, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}

	if _, err := memPriorityFromTag(s.Priority); err != nil {
		return err
	}

	bound := valType
	if s.Type != nil {
		annot, err := c.typeOf(s.Type)
		if err != nil {
			return err
		}
		if !Compatible(valType, annot) {
			return errorf(s.Pos(), "type mismatch in let statement: expected %s, got %s",
				annot, valType)
		}
		bound = annot
	}

	// Overwrites any prior binding of the same name.
	c.env[s.Name] = bound
	return nil
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) error {
	if s.Result == nil {
		return nil
	}
	valType, err := c.checkExpr(s.Result)
	if err != nil {
		return err
	}
	if c.current != nil && !Compatible(valType, c.current.Result) {
		return errorf(s.Pos(), "return type mismatch: expected %s, got %s",
			c.current.Result, valType)
	}
	return nil
}

func (c *Checker) checkIf(s *ast.IfStmt) error {
	condType, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if !Compatible(condType, Bool) {
		return errorf(s.Cond.Pos(), "if condition must be bool, got %s", condType)
	}
	if err := c.checkStmts(s.Then.Stmts); err != nil {
		return err
	}
	if s.Else != nil {
		return c.checkStmts(s.Else.Stmts)
	}
	return nil
}

func (c *Checker) checkWhile(s *ast.WhileStmt) error {
	condType, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if !Compatible(condType, Bool) {
		return errorf(s.Cond.Pos(), "while condition must be bool, got %s", condType)
	}
	return c.checkStmts(s.Body.Stmts)
}

func (c *Checker) checkFor(s *ast.ForStmt) error {
	iterType, err := c.checkExpr(s.Iterator)
	if err != nil {
		return err
	}
	arr, ok := iterType.(*Array)
	if !ok {
		return errorf(s.Iterator.Pos(), "for iterator must be an array, got %s", iterType)
	}
	c.env[s.Var] = arr.Elem
	return c.checkStmts(s.Body.Stmts)
}

func (c *Checker) checkMatch(s *ast.MatchStmt) error {
	valType, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}
	for _, arm := range s.Arms {
		if err := c.checkPattern(arm.Pattern, valType); err != nil {
			return err
		}
		if err := c.checkStmts(arm.Body.Stmts); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkPattern(p ast.Pattern, valType Type) error {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return nil

	case *ast.IdentPattern:
		c.env[pat.Name] = valType
		return nil

	case *ast.LiteralPattern:
		litType, err := c.checkExpr(pat.Value)
		if err != nil {
			return err
		}
		if !Compatible(litType, valType) {
			return errorf(pat.Pos(), "pattern type mismatch: expected %s, got %s",
				valType, litType)
		}
		return nil

	case *ast.TuplePattern:
		tup, ok := valType.(*Tuple)
		if !ok {
			return errorf(pat.Pos(), "expected tuple type, got %s", valType)
		}
		if len(pat.Elems) != len(tup.Elems) {
			return errorf(pat.Pos(), "tuple pattern length mismatch: expected %d, got %d",
				len(tup.Elems), len(pat.Elems))
		}
		for i, sub := range pat.Elems {
			if err := c.checkPattern(sub, tup.Elems[i]); err != nil {
				return err
			}
		}
		return nil

	case *ast.StructPattern:
		td, ok := c.typeDefs[pat.Name]
		if !ok {
			return errorf(pat.Pos(), "unknown type %q", pat.Name)
		}
		if named, ok := valType.(*Named); !ok || named.Name != pat.Name {
			return errorf(pat.Pos(), "cannot match %s pattern against %s", pat.Name, valType)
		}
		fieldTypes := make(map[string]Type, len(td.Fields))
		for _, f := range td.Fields {
			ft, err := c.typeOf(f.Type)
			if err != nil {
				return err
			}
			fieldTypes[f.Name] = ft
		}
		for _, fp := range pat.Fields {
			ft, ok := fieldTypes[fp.Name]
			if !ok {
				return errorf(fp.Pos(), "unknown field %q in type %q", fp.Name, pat.Name)
			}
			if err := c.checkPattern(fp.Pattern, ft); err != nil {
				return err
			}
		}
		return nil

	default:
		return errorf(p.Pos(), "unsupported pattern %T", p)
	}
}

// ----- Expressions -----

func (c *Checker) checkExpr(e ast.Expr) (Type, error) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return Int, nil
	case *ast.FloatLiteral:
		return Float, nil
	case *ast.StringLiteral:
		return String, nil
	case *ast.CharLiteral:
		return Char, nil
	case *ast.BoolLiteral:
		return Bool, nil

	case *ast.IdentExpr:
		t, ok := c.env[ex.Name]
		if !ok {
			return Invalid, errorf(ex.Pos(), "undefined variable %q", ex.Name)
		}
		return t, nil

	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(ex)

	case *ast.TupleLiteral:
		elems := make([]Type, len(ex.Elements))
		for i, el := range ex.Elements {
			et, err := c.checkExpr(el)
			if err != nil {
				return Invalid, err
			}
			elems[i] = et
		}
		return &Tuple{Elems: elems}, nil

	case *ast.BinaryExpr:
		return c.checkBinary(ex)

	case *ast.UnaryExpr:
		return c.checkUnary(ex)

	case *ast.CallExpr:
		return c.checkCall(ex)

	case *ast.AssignExpr:
		return c.checkAssign(ex)

	default:
		return Invalid, errorf(e.Pos(), "unsupported expression %T", e)
	}
}

func (c *Checker) checkArrayLiteral(lit *ast.ArrayLiteral) (Type, error) {
	if len(lit.Elements) == 0 {
		return Invalid, errorf(lit.Pos(), "cannot infer element type of empty array literal")
	}
	elemType, err := c.checkExpr(lit.Elements[0])
	if err != nil {
		return Invalid, err
	}
	for _, el := range lit.Elements[1:] {
		t, err := c.checkExpr(el)
		if err != nil {
			return Invalid, err
		}
		if !Compatible(t, elemType) {
			return Invalid, errorf(el.Pos(), "array element type mismatch: expected %s, got %s",
				elemType, t)
		}
	}
	return &Array{Elem: elemType}, nil
}

func (c *Checker) checkBinary(b *ast.BinaryExpr) (Type, error) {
	left, err := c.checkExpr(b.Left)
	if err != nil {
		return Invalid, err
	}
	right, err := c.checkExpr(b.Right)
	if err != nil {
		return Invalid, err
	}

	switch b.Op {
	case token.Plus, token.Minus, token.Star, token.Slash:
		if !IsNumeric(left) || !IsNumeric(right) {
			return Invalid, errorf(b.Pos(), "operator %s expects numeric operands, got (%s, %s)",
				b.Op, left, right)
		}
		if Equal(left, Float) || Equal(right, Float) {
			return Float, nil
		}
		return Int, nil

	case token.Percent:
		if !IsNumeric(left) || !IsNumeric(right) {
			return Invalid, errorf(b.Pos(), "operator %s expects numeric operands, got (%s, %s)",
				b.Op, left, right)
		}
		return Int, nil

	case token.Eq, token.NotEq:
		if !Compatible(left, right) {
			return Invalid, errorf(b.Pos(), "cannot compare incompatible types %s and %s",
				left, right)
		}
		return Bool, nil

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if !IsNumeric(left) || !IsNumeric(right) {
			return Invalid, errorf(b.Pos(), "comparison %s expects numeric operands, got (%s, %s)",
				b.Op, left, right)
		}
		return Bool, nil

	case token.AndAnd, token.OrOr:
		if !Equal(left, Bool) || !Equal(right, Bool) {
			return Invalid, errorf(b.Pos(), "logical operator %s expects (bool, bool), got (%s, %s)",
				b.Op, left, right)
		}
		return Bool, nil

	default:
		return Invalid, errorf(b.Pos(), "unsupported binary operator %s", b.Op)
	}
}

func (c *Checker) checkUnary(u *ast.UnaryExpr) (Type, error) {
	t, err := c.checkExpr(u.X)
	if err != nil {
		return Invalid, err
	}
	switch u.Op {
	case token.Minus:
		if !IsNumeric(t) {
			return Invalid, errorf(u.Pos(), "negation requires a numeric operand, got %s", t)
		}
		return t, nil
	case token.Bang:
		if !Equal(t, Bool) {
			return Invalid, errorf(u.Pos(), "logical not requires a bool operand, got %s", t)
		}
		return Bool, nil
	default:
		return Invalid, errorf(u.Pos(), "unsupported unary operator %s", u.Op)
	}
}

func (c *Checker) checkCall(call *ast.CallExpr) (Type, error) {
	calleeType, ok := c.env[call.Callee]
	if !ok {
		return Invalid, errorf(call.Pos(), "undefined function %q", call.Callee)
	}
	fn, ok := calleeType.(*Function)
	if !ok {
		return Invalid, errorf(call.Pos(), "%q is not a function, got %s", call.Callee, calleeType)
	}
	if len(call.Args) != len(fn.Params) {
		return Invalid, errorf(call.Pos(), "wrong number of arguments to %q: expected %d, got %d",
			call.Callee, len(fn.Params), len(call.Args))
	}
	for i, arg := range call.Args {
		argType, err := c.checkExpr(arg)
		if err != nil {
			return Invalid, err
		}
		if !Compatible(argType, fn.Params[i]) {
			return Invalid, errorf(arg.Pos(), "argument %d to %q: expected %s, got %s",
				i+1, call.Callee, fn.Params[i], argType)
		}
	}
	return fn.Result, nil
}

func (c *Checker) checkAssign(a *ast.AssignExpr) (Type, error) {
	target, ok := c.env[a.Target]
	if !ok {
		return Invalid, errorf(a.Pos(), "undefined variable %q", a.Target)
	}
	valType, err := c.checkExpr(a.Value)
	if err != nil {
		return Invalid, err
	}
	if !Compatible(valType, target) {
		return Invalid, errorf(a.Pos(), "assignment type mismatch: expected %s, got %s",
			target, valType)
	}
	return Unit, nil
}
