package ast

import "sable/internal/token"

// Basic interfaces

type Node interface {
	Pos() token.Position
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type TypeNode interface {
	Node
	typeNode()
}

type Pattern interface {
	Node
	patternNode()
}

// Program

type Program struct {
	Funcs    []*FnDecl
	TypeDefs []*TypeDef
}

func (p *Program) Pos() token.Position {
	if len(p.TypeDefs) > 0 {
		return p.TypeDefs[0].Pos()
	}
	if len(p.Funcs) > 0 {
		return p.Funcs[0].Pos()
	}
	return token.Position{}
}

// TypeDef is a record type definition: type Name { field: T, ... }

type TypeDef struct {
	TypePos token.Position
	Name    string
	NamePos token.Position
	Fields  []*FieldDef
}

func (d *TypeDef) Pos() token.Position { return d.TypePos }

type FieldDef struct {
	Name    string
	NamePos token.Position
	Type    TypeNode
}

func (f *FieldDef) Pos() token.Position { return f.NamePos }

// FnDecl / Param

type FnDecl struct {
	FnPos    token.Position
	Name     string
	NamePos  token.Position
	Params   []*Param
	Return   TypeNode
	Priority *PriorityTag // nil when untagged
	Body     *BlockStmt
}

func (f *FnDecl) Pos() token.Position { return f.FnPos }

type Param struct {
	Name    string
	NamePos token.Position
	Type    TypeNode
}

func (p *Param) Pos() token.Position { return p.NamePos }

// PriorityTag is a parsed @-tag: @3, @[1, 2], @most_high, @most_low.
// Whether it denotes a function or a memory priority depends on the
// declaration it is attached to.

type PriorityKind int

const (
	PriorityLevel PriorityKind = iota
	PriorityMulti
	PriorityMostHigh
	PriorityMostLow
)

type PriorityTag struct {
	AtPos  token.Position
	Kind   PriorityKind
	Levels []int // one entry for Level, several for Multi, empty for sentinels
}

func (t *PriorityTag) Pos() token.Position { return t.AtPos }

// ---------- Types ----------

// SimpleType covers the primitive keywords and named record types.
type SimpleType struct {
	Name    string
	NamePos token.Position
}

func (t *SimpleType) Pos() token.Position { return t.NamePos }
func (t *SimpleType) typeNode()           {}

// ArrayType is [T].
type ArrayType struct {
	LBracket token.Position
	Elem     TypeNode
}

func (t *ArrayType) Pos() token.Position { return t.LBracket }
func (t *ArrayType) typeNode()           {}

// TupleType is (T1, T2, ...).
type TupleType struct {
	LParen token.Position
	Elems  []TypeNode
}

func (t *TupleType) Pos() token.Position { return t.LParen }
func (t *TupleType) typeNode()           {}

// VecType is vec<dim, T>.
type VecType struct {
	VecPos token.Position
	Dim    int
	Elem   TypeNode
}

func (t *VecType) Pos() token.Position { return t.VecPos }
func (t *VecType) typeNode()           {}

// MatType is mat<rows, cols, T>.
type MatType struct {
	MatPos token.Position
	Rows   int
	Cols   int
	Elem   TypeNode
}

func (t *MatType) Pos() token.Position { return t.MatPos }
func (t *MatType) typeNode()           {}

// TensorType is tensor<d1, d2, ..., T>.
type TensorType struct {
	TensorPos token.Position
	Dims      []int
	Elem      TypeNode
}

func (t *TensorType) Pos() token.Position { return t.TensorPos }
func (t *TensorType) typeNode()           {}

// QuatType is quat<T>.
type QuatType struct {
	QuatPos token.Position
	Elem    TypeNode
}

func (t *QuatType) Pos() token.Position { return t.QuatPos }
func (t *QuatType) typeNode()           {}

// ComplexType is complex<T>.
type ComplexType struct {
	ComplexPos token.Position
	Elem       TypeNode
}

func (t *ComplexType) Pos() token.Position { return t.ComplexPos }
func (t *ComplexType) typeNode()           {}

// FnType is fn(T1, ...) -> R, with an optional trailing priority tag.
type FnType struct {
	FnPos    token.Position
	Params   []TypeNode
	Result   TypeNode
	Priority *PriorityTag
}

func (t *FnType) Pos() token.Position { return t.FnPos }
func (t *FnType) typeNode()           {}

// PointerType is *T.
type PointerType struct {
	StarPos token.Position
	Elem    TypeNode
}

func (t *PointerType) Pos() token.Position { return t.StarPos }
func (t *PointerType) typeNode()           {}

// ---------- Statements ----------

type BlockStmt struct {
	LBrace token.Position
	Stmts  []Stmt
	RBrace token.Position
}

func (b *BlockStmt) Pos() token.Position { return b.LBrace }
func (b *BlockStmt) stmtNode()           {}

// LetStmt is let name [: T] [@prio] = expr;
type LetStmt struct {
	LetPos   token.Position
	Name     string
	NamePos  token.Position
	Type     TypeNode     // nil when unannotated
	Priority *PriorityTag // nil when untagged; a memory priority
	Value    Expr
}

func (s *LetStmt) Pos() token.Position { return s.LetPos }
func (s *LetStmt) stmtNode()           {}

type ReturnStmt struct {
	ReturnPos token.Position
	Result    Expr // may be nil for `return;`
}

func (s *ReturnStmt) Pos() token.Position { return s.ReturnPos }
func (s *ReturnStmt) stmtNode()           {}

type IfStmt struct {
	IfPos token.Position
	Cond  Expr
	Then  *BlockStmt
	Else  *BlockStmt // nil when absent
}

func (s *IfStmt) Pos() token.Position { return s.IfPos }
func (s *IfStmt) stmtNode()           {}

type WhileStmt struct {
	WhilePos token.Position
	Cond     Expr
	Body     *BlockStmt
}

func (s *WhileStmt) Pos() token.Position { return s.WhilePos }
func (s *WhileStmt) stmtNode()           {}

// ForStmt is for var in iterator { body }.
type ForStmt struct {
	ForPos   token.Position
	Var      string
	VarPos   token.Position
	Iterator Expr
	Body     *BlockStmt
}

func (s *ForStmt) Pos() token.Position { return s.ForPos }
func (s *ForStmt) stmtNode()           {}

type MatchStmt struct {
	MatchPos token.Position
	Value    Expr
	Arms     []*MatchArm
}

func (s *MatchStmt) Pos() token.Position { return s.MatchPos }
func (s *MatchStmt) stmtNode()           {}

type MatchArm struct {
	Pattern Pattern
	Body    *BlockStmt
}

func (a *MatchArm) Pos() token.Position { return a.Pattern.Pos() }

type ExprStmt struct {
	Expression Expr
}

func (s *ExprStmt) Pos() token.Position { return s.Expression.Pos() }
func (s *ExprStmt) stmtNode()           {}

// ---------- Patterns ----------

type WildcardPattern struct {
	UnderscorePos token.Position
}

func (p *WildcardPattern) Pos() token.Position { return p.UnderscorePos }
func (p *WildcardPattern) patternNode()        {}

type IdentPattern struct {
	Name    string
	NamePos token.Position
}

func (p *IdentPattern) Pos() token.Position { return p.NamePos }
func (p *IdentPattern) patternNode()        {}

// LiteralPattern wraps a literal expression used as a pattern.
type LiteralPattern struct {
	Value Expr // *IntLiteral, *FloatLiteral, *StringLiteral, *CharLiteral or *BoolLiteral
}

func (p *LiteralPattern) Pos() token.Position { return p.Value.Pos() }
func (p *LiteralPattern) patternNode()        {}

type TuplePattern struct {
	LParen token.Position
	Elems  []Pattern
}

func (p *TuplePattern) Pos() token.Position { return p.LParen }
func (p *TuplePattern) patternNode()        {}

// StructPattern matches a record type: Name { field: pat, ... }.
type StructPattern struct {
	Name    string
	NamePos token.Position
	Fields  []*FieldPattern
}

func (p *StructPattern) Pos() token.Position { return p.NamePos }
func (p *StructPattern) patternNode()        {}

type FieldPattern struct {
	Name    string
	NamePos token.Position
	Pattern Pattern
}

func (f *FieldPattern) Pos() token.Position { return f.NamePos }

// ---------- Expressions ----------

type IdentExpr struct {
	Name    string
	NamePos token.Position
}

func (e *IdentExpr) Pos() token.Position { return e.NamePos }
func (e *IdentExpr) exprNode()           {}

type IntLiteral struct {
	Value  int64
	LitPos token.Position
	Raw    string
}

func (e *IntLiteral) Pos() token.Position { return e.LitPos }
func (e *IntLiteral) exprNode()           {}

type FloatLiteral struct {
	Value  float64
	LitPos token.Position
	Raw    string
}

func (e *FloatLiteral) Pos() token.Position { return e.LitPos }
func (e *FloatLiteral) exprNode()           {}

type StringLiteral struct {
	Value  string
	LitPos token.Position
}

func (e *StringLiteral) Pos() token.Position { return e.LitPos }
func (e *StringLiteral) exprNode()           {}

type CharLiteral struct {
	Value  rune
	LitPos token.Position
}

func (e *CharLiteral) Pos() token.Position { return e.LitPos }
func (e *CharLiteral) exprNode()           {}

type BoolLiteral struct {
	Value  bool
	LitPos token.Position
}

func (e *BoolLiteral) Pos() token.Position { return e.LitPos }
func (e *BoolLiteral) exprNode()           {}

// ArrayLiteral is [e1, e2, ...].
type ArrayLiteral struct {
	LBracket token.Position
	Elements []Expr
	RBracket token.Position
}

func (e *ArrayLiteral) Pos() token.Position { return e.LBracket }
func (e *ArrayLiteral) exprNode()           {}

// TupleLiteral is (e1, e2, ...) with at least two elements; a single
// parenthesized expression is just grouping.
type TupleLiteral struct {
	LParen   token.Position
	Elements []Expr
	RParen   token.Position
}

func (e *TupleLiteral) Pos() token.Position { return e.LParen }
func (e *TupleLiteral) exprNode()           {}

// CallExpr is name(arg, ...). Callees are plain identifiers; Sable has
// no first-class function expressions yet.
type CallExpr struct {
	Callee  string
	NamePos token.Position
	LParen  token.Position
	Args    []Expr
	RParen  token.Position
}

func (e *CallExpr) Pos() token.Position { return e.NamePos }
func (e *CallExpr) exprNode()           {}

// AssignExpr is target = value, yielding unit.
type AssignExpr struct {
	Target    string
	TargetPos token.Position
	Value     Expr
}

func (e *AssignExpr) Pos() token.Position { return e.TargetPos }
func (e *AssignExpr) exprNode()           {}

type BinaryExpr struct {
	OpPos token.Position
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Pos() token.Position { return e.OpPos }
func (e *BinaryExpr) exprNode()           {}

type UnaryExpr struct {
	OpPos token.Position
	Op    token.Kind
	X     Expr
}

func (e *UnaryExpr) Pos() token.Position { return e.OpPos }
func (e *UnaryExpr) exprNode()           {}
