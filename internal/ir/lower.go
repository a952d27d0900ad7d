package ir

import (
	"fmt"

	"sable/internal/ast"
	"sable/internal/token"
	"sable/internal/types"
)

// Lowering turns a checked program into the flat instruction form the
// optimizer works on. Variables live in named slots (alloca/store/load);
// intermediate results go to numbered temps.

type lowerer struct {
	instrs []Instr

	declared map[string]bool
	nTemps   int
	nLabels  int
}

// Lower translates every function in the program.
func Lower(prog *ast.Program) (*Module, error) {
	mod := &Module{}
	for _, fn := range prog.Funcs {
		lowered, err := lowerFn(fn)
		if err != nil {
			return nil, err
		}
		mod.Functions = append(mod.Functions, lowered)
	}
	return mod, nil
}

func lowerFn(fn *ast.FnDecl) (*Function, error) {
	lw := &lowerer{declared: make(map[string]bool)}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
		lw.declared[p.Name] = true
	}

	prio, err := types.FuncPriorityOf(fn.Priority)
	if err != nil {
		return nil, err
	}

	if err := lw.stmts(fn.Body.Stmts); err != nil {
		return nil, err
	}

	return &Function{
		Name:     fn.Name,
		Params:   params,
		Priority: prio,
		Instrs:   lw.instrs,
	}, nil
}

func (lw *lowerer) emit(in Instr) {
	lw.instrs = append(lw.instrs, in)
}

func (lw *lowerer) newTemp() string {
	name := fmt.Sprintf("t%d", lw.nTemps)
	lw.nTemps++
	return name
}

func (lw *lowerer) newLabel(hint string) string {
	name := fmt.Sprintf("%s%d", hint, lw.nLabels)
	lw.nLabels++
	return name
}

// ---------- Statements ----------

func (lw *lowerer) stmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := lw.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (lw *lowerer) stmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.LetStmt:
		val, err := lw.expr(st.Value)
		if err != nil {
			return err
		}
		if !lw.declared[st.Name] {
			lw.declared[st.Name] = true
			lw.emit(Instr{Op: OpAlloca, Dest: st.Name})
		}
		if st.Priority != nil {
			prio, err := types.MemPriorityOf(st.Priority)
			if err != nil {
				return err
			}
			lw.emit(Instr{Op: OpPriority, Dest: st.Name, Priority: prio})
		}
		lw.emit(Instr{Op: OpStore, Dest: st.Name, Src: val})
		return nil

	case *ast.ReturnStmt:
		if st.Result == nil {
			lw.emit(Instr{Op: OpRet})
			return nil
		}
		val, err := lw.expr(st.Result)
		if err != nil {
			return err
		}
		lw.emit(Instr{Op: OpRet, Src: val})
		return nil

	case *ast.IfStmt:
		return lw.ifStmt(st)

	case *ast.WhileStmt:
		return lw.whileStmt(st)

	case *ast.ExprStmt:
		_, err := lw.expr(st.Expression)
		return err

	case *ast.BlockStmt:
		return lw.stmts(st.Stmts)

	default:
		return types.Error{
			Pos: s.Pos(),
			Msg: fmt.Sprintf("%T is not supported in code generation", s),
		}
	}
}

func (lw *lowerer) ifStmt(s *ast.IfStmt) error {
	cond, err := lw.expr(s.Cond)
	if err != nil {
		return err
	}

	thenL := lw.newLabel("then")
	elseL := lw.newLabel("else")
	endL := lw.newLabel("endif")

	lw.emit(Instr{Op: OpCondJump, Src: cond, Label: thenL, Else: elseL})

	lw.emit(Instr{Op: OpLabel, Label: thenL})
	if err := lw.stmts(s.Then.Stmts); err != nil {
		return err
	}
	lw.emit(Instr{Op: OpJump, Label: endL})

	lw.emit(Instr{Op: OpLabel, Label: elseL})
	if s.Else != nil {
		if err := lw.stmts(s.Else.Stmts); err != nil {
			return err
		}
	}
	lw.emit(Instr{Op: OpJump, Label: endL})

	lw.emit(Instr{Op: OpLabel, Label: endL})
	return nil
}

func (lw *lowerer) whileStmt(s *ast.WhileStmt) error {
	headL := lw.newLabel("loop")
	bodyL := lw.newLabel("body")
	endL := lw.newLabel("endloop")

	lw.emit(Instr{Op: OpLabel, Label: headL})
	cond, err := lw.expr(s.Cond)
	if err != nil {
		return err
	}
	lw.emit(Instr{Op: OpCondJump, Src: cond, Label: bodyL, Else: endL})

	lw.emit(Instr{Op: OpLabel, Label: bodyL})
	if err := lw.stmts(s.Body.Stmts); err != nil {
		return err
	}
	lw.emit(Instr{Op: OpJump, Label: headL})

	lw.emit(Instr{Op: OpLabel, Label: endL})
	return nil
}

// ---------- Expressions ----------

func (lw *lowerer) expr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return IntVal(ex.Value), nil
	case *ast.FloatLiteral:
		return FloatVal(ex.Value), nil
	case *ast.BoolLiteral:
		return BoolVal(ex.Value), nil
	case *ast.StringLiteral:
		return StringVal(ex.Value), nil
	case *ast.CharLiteral:
		return StringVal(string(ex.Value)), nil

	case *ast.IdentExpr:
		tmp := lw.newTemp()
		lw.emit(Instr{Op: OpLoad, Dest: tmp, Src: RefVal(ex.Name)})
		return RefVal(tmp), nil

	case *ast.BinaryExpr:
		lhs, err := lw.expr(ex.Left)
		if err != nil {
			return Value{}, err
		}
		rhs, err := lw.expr(ex.Right)
		if err != nil {
			return Value{}, err
		}
		op, err := binOpFor(ex.Op, ex.Pos())
		if err != nil {
			return Value{}, err
		}
		tmp := lw.newTemp()
		lw.emit(Instr{Op: OpBin, Dest: tmp, Bin: op, LHS: lhs, RHS: rhs})
		return RefVal(tmp), nil

	case *ast.UnaryExpr:
		operand, err := lw.expr(ex.X)
		if err != nil {
			return Value{}, err
		}
		un := Neg
		if ex.Op == token.Bang {
			un = Not
		}
		tmp := lw.newTemp()
		lw.emit(Instr{Op: OpUn, Dest: tmp, Un: un, Src: operand})
		return RefVal(tmp), nil

	case *ast.CallExpr:
		args := make([]Value, len(ex.Args))
		for i, a := range ex.Args {
			v, err := lw.expr(a)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		tmp := lw.newTemp()
		lw.emit(Instr{Op: OpCall, Dest: tmp, Callee: ex.Callee, Args: args})
		return RefVal(tmp), nil

	case *ast.AssignExpr:
		val, err := lw.expr(ex.Value)
		if err != nil {
			return Value{}, err
		}
		lw.emit(Instr{Op: OpStore, Dest: ex.Target, Src: val})
		return Value{}, nil

	default:
		return Value{}, types.Error{
			Pos: e.Pos(),
			Msg: fmt.Sprintf("%T is not supported in code generation", e),
		}
	}
}

func binOpFor(op token.Kind, pos token.Position) (BinOp, error) {
	switch op {
	case token.Plus:
		return Add, nil
	case token.Minus:
		return Sub, nil
	case token.Star:
		return Mul, nil
	case token.Slash:
		return Div, nil
	case token.Percent:
		return Mod, nil
	case token.Eq:
		return Eq, nil
	case token.NotEq:
		return Ne, nil
	case token.Lt:
		return Lt, nil
	case token.LtEq:
		return Le, nil
	case token.Gt:
		return Gt, nil
	case token.GtEq:
		return Ge, nil
	case token.AndAnd:
		return And, nil
	case token.OrOr:
		return Or, nil
	default:
		return Add, types.Error{
			Pos: pos,
			Msg: fmt.Sprintf("operator %s is not supported in code generation", op),
		}
	}
}
