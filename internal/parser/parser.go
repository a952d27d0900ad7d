package parser

import (
	"fmt"
	"strconv"

	"sable/internal/ast"
	"sable/internal/lexer"
	"sable/internal/token"
)

type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// init cur/peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: ", pos.Line, pos.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur.Kind != kind {
		p.errorf(p.cur.Pos, "expected %s, got %s (%q)", kind, p.cur.Kind, p.cur.Lexeme)
	}
	tok := p.cur
	p.nextToken()
	return tok
}

// ---------- Top-level ----------

func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.Fn:
			fn := p.parseFnDecl()
			if fn != nil {
				prog.Funcs = append(prog.Funcs, fn)
			}
		case token.Type:
			td := p.parseTypeDef()
			if td != nil {
				prog.TypeDefs = append(prog.TypeDefs, td)
			}
		default:
			p.errorf(p.cur.Pos, "unexpected token at top level: %s", p.cur.Kind)
			p.nextToken()
		}
	}
	return prog
}

// parseTypeDef parses: type Name { field: T, ... }
func (p *Parser) parseTypeDef() *ast.TypeDef {
	typeTok := p.expect(token.Type)
	nameTok := p.expect(token.Ident)

	td := &ast.TypeDef{
		TypePos: typeTok.Pos,
		Name:    nameTok.Lexeme,
		NamePos: nameTok.Pos,
	}

	p.expect(token.LBrace)
	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		fieldTok := p.expect(token.Ident)
		p.expect(token.Colon)
		ft := p.parseType()
		td.Fields = append(td.Fields, &ast.FieldDef{
			Name:    fieldTok.Lexeme,
			NamePos: fieldTok.Pos,
			Type:    ft,
		})
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	p.expect(token.RBrace)
	return td
}

// parseFnDecl parses: fn name(a: T, ...) -> R @prio { ... }
// The return type defaults to unit and the priority tag is optional.
func (p *Parser) parseFnDecl() *ast.FnDecl {
	fnTok := p.expect(token.Fn)
	nameTok := p.expect(token.Ident)

	fn := &ast.FnDecl{
		FnPos:   fnTok.Pos,
		Name:    nameTok.Lexeme,
		NamePos: nameTok.Pos,
	}

	p.expect(token.LParen)
	for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
		paramTok := p.expect(token.Ident)
		p.expect(token.Colon)
		pt := p.parseType()
		fn.Params = append(fn.Params, &ast.Param{
			Name:    paramTok.Lexeme,
			NamePos: paramTok.Pos,
			Type:    pt,
		})
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	p.expect(token.RParen)

	if p.cur.Kind == token.Arrow {
		p.nextToken()
		fn.Return = p.parseType()
	} else {
		fn.Return = &ast.SimpleType{Name: "unit", NamePos: p.cur.Pos}
	}

	if p.cur.Kind == token.At {
		fn.Priority = p.parsePriorityTag()
	}

	fn.Body = p.parseBlock()
	return fn
}

// parsePriorityTag parses @N, @[N, N, ...], @most_high or @most_low.
func (p *Parser) parsePriorityTag() *ast.PriorityTag {
	atTok := p.expect(token.At)
	tag := &ast.PriorityTag{AtPos: atTok.Pos}

	switch p.cur.Kind {
	case token.Int:
		tag.Kind = ast.PriorityLevel
		tag.Levels = []int{p.parseIntValue()}
	case token.LBracket:
		tag.Kind = ast.PriorityMulti
		p.nextToken()
		for p.cur.Kind != token.RBracket && p.cur.Kind != token.EOF {
			tag.Levels = append(tag.Levels, p.parseIntValue())
			if p.cur.Kind == token.Comma {
				p.nextToken()
			}
		}
		p.expect(token.RBracket)
	case token.MostHighSent:
		tag.Kind = ast.PriorityMostHigh
		p.nextToken()
	case token.MostLowSent:
		tag.Kind = ast.PriorityMostLow
		p.nextToken()
	default:
		p.errorf(p.cur.Pos, "expected priority level after @, got %s", p.cur.Kind)
		p.nextToken()
	}
	return tag
}

func (p *Parser) parseIntValue() int {
	tok := p.expect(token.Int)
	n, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		p.errorf(tok.Pos, "invalid integer %q", tok.Lexeme)
		return 0
	}
	return n
}

// ---------- Types ----------

func (p *Parser) parseType() ast.TypeNode {
	switch p.cur.Kind {
	case token.UnitType, token.IntType, token.FloatType, token.BoolType,
		token.CharType, token.StringType, token.VoidType:
		tok := p.cur
		p.nextToken()
		return &ast.SimpleType{Name: tok.Lexeme, NamePos: tok.Pos}

	case token.Ident:
		tok := p.cur
		p.nextToken()
		return &ast.SimpleType{Name: tok.Lexeme, NamePos: tok.Pos}

	case token.LBracket:
		lbTok := p.cur
		p.nextToken()
		elem := p.parseType()
		p.expect(token.RBracket)
		return &ast.ArrayType{LBracket: lbTok.Pos, Elem: elem}

	case token.LParen:
		lpTok := p.cur
		p.nextToken()
		var elems []ast.TypeNode
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			elems = append(elems, p.parseType())
			if p.cur.Kind == token.Comma {
				p.nextToken()
			}
		}
		p.expect(token.RParen)
		if len(elems) == 0 {
			return &ast.SimpleType{Name: "unit", NamePos: lpTok.Pos}
		}
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleType{LParen: lpTok.Pos, Elems: elems}

	case token.VecType:
		tok := p.cur
		p.nextToken()
		p.expect(token.Lt)
		dim := p.parseIntValue()
		p.expect(token.Comma)
		elem := p.parseType()
		p.expect(token.Gt)
		return &ast.VecType{VecPos: tok.Pos, Dim: dim, Elem: elem}

	case token.MatType:
		tok := p.cur
		p.nextToken()
		p.expect(token.Lt)
		rows := p.parseIntValue()
		p.expect(token.Comma)
		cols := p.parseIntValue()
		p.expect(token.Comma)
		elem := p.parseType()
		p.expect(token.Gt)
		return &ast.MatType{MatPos: tok.Pos, Rows: rows, Cols: cols, Elem: elem}

	case token.TensorType:
		tok := p.cur
		p.nextToken()
		p.expect(token.Lt)
		// dimensions until the element type: tensor<2, 3, 4, float>
		var dims []int
		for p.cur.Kind == token.Int {
			dims = append(dims, p.parseIntValue())
			p.expect(token.Comma)
		}
		elem := p.parseType()
		p.expect(token.Gt)
		return &ast.TensorType{TensorPos: tok.Pos, Dims: dims, Elem: elem}

	case token.QuatType:
		tok := p.cur
		p.nextToken()
		p.expect(token.Lt)
		elem := p.parseType()
		p.expect(token.Gt)
		return &ast.QuatType{QuatPos: tok.Pos, Elem: elem}

	case token.ComplexType:
		tok := p.cur
		p.nextToken()
		p.expect(token.Lt)
		elem := p.parseType()
		p.expect(token.Gt)
		return &ast.ComplexType{ComplexPos: tok.Pos, Elem: elem}

	case token.Fn:
		tok := p.cur
		p.nextToken()
		fnType := &ast.FnType{FnPos: tok.Pos}
		p.expect(token.LParen)
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			fnType.Params = append(fnType.Params, p.parseType())
			if p.cur.Kind == token.Comma {
				p.nextToken()
			}
		}
		p.expect(token.RParen)
		if p.cur.Kind == token.Arrow {
			p.nextToken()
			fnType.Result = p.parseType()
		} else {
			fnType.Result = &ast.SimpleType{Name: "unit", NamePos: p.cur.Pos}
		}
		if p.cur.Kind == token.At {
			fnType.Priority = p.parsePriorityTag()
		}
		return fnType

	case token.Star:
		tok := p.cur
		p.nextToken()
		elem := p.parseType()
		return &ast.PointerType{StarPos: tok.Pos, Elem: elem}

	default:
		p.errorf(p.cur.Pos, "expected type, got %s (%q)", p.cur.Kind, p.cur.Lexeme)
		p.nextToken()
		return &ast.SimpleType{Name: "unit", NamePos: p.cur.Pos}
	}
}

// ---------- Statements ----------

func (p *Parser) parseBlock() *ast.BlockStmt {
	lbTok := p.expect(token.LBrace)
	block := &ast.BlockStmt{LBrace: lbTok.Pos}

	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}

	rbTok := p.expect(token.RBrace)
	block.RBrace = rbTok.Pos
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.Let:
		return p.parseLetStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.For:
		return p.parseForStmt()
	case token.Match:
		return p.parseMatchStmt()
	case token.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseLetStmt parses: let name [: T] [@prio] = expr ;
func (p *Parser) parseLetStmt() ast.Stmt {
	letTok := p.expect(token.Let)
	nameTok := p.expect(token.Ident)

	stmt := &ast.LetStmt{
		LetPos:  letTok.Pos,
		Name:    nameTok.Lexeme,
		NamePos: nameTok.Pos,
	}

	if p.cur.Kind == token.Colon {
		p.nextToken()
		stmt.Type = p.parseType()
	}
	if p.cur.Kind == token.At {
		stmt.Priority = p.parsePriorityTag()
	}

	p.expect(token.Assign)
	stmt.Value = p.parseExpr()
	p.expect(token.Semicolon)
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	retTok := p.expect(token.Return)
	stmt := &ast.ReturnStmt{ReturnPos: retTok.Pos}

	if p.cur.Kind != token.Semicolon {
		stmt.Result = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return stmt
}

func (p *Parser) parseIfStmt() ast.Stmt {
	ifTok := p.expect(token.If)
	stmt := &ast.IfStmt{IfPos: ifTok.Pos}

	stmt.Cond = p.parseExpr()
	stmt.Then = p.parseBlock()

	if p.cur.Kind == token.Else {
		p.nextToken()
		if p.cur.Kind == token.If {
			// else-if chains become a nested if inside a synthetic block
			inner := p.parseIfStmt()
			stmt.Else = &ast.BlockStmt{
				LBrace: inner.Pos(),
				Stmts:  []ast.Stmt{inner},
			}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	whileTok := p.expect(token.While)
	stmt := &ast.WhileStmt{WhilePos: whileTok.Pos}

	stmt.Cond = p.parseExpr()
	stmt.Body = p.parseBlock()
	return stmt
}

// parseForStmt parses: for x in expr { ... }
func (p *Parser) parseForStmt() ast.Stmt {
	forTok := p.expect(token.For)
	varTok := p.expect(token.Ident)
	p.expect(token.In)

	stmt := &ast.ForStmt{
		ForPos: forTok.Pos,
		Var:    varTok.Lexeme,
		VarPos: varTok.Pos,
	}
	stmt.Iterator = p.parseExpr()
	stmt.Body = p.parseBlock()
	return stmt
}

// parseMatchStmt parses: match expr { pat => { ... }, ... }
func (p *Parser) parseMatchStmt() ast.Stmt {
	matchTok := p.expect(token.Match)
	stmt := &ast.MatchStmt{MatchPos: matchTok.Pos}

	stmt.Value = p.parseExpr()
	p.expect(token.LBrace)

	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		pat := p.parsePattern()
		p.expect(token.FatArrow)
		body := p.parseBlock()
		stmt.Arms = append(stmt.Arms, &ast.MatchArm{Pattern: pat, Body: body})
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	p.expect(token.RBrace)
	return stmt
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	p.expect(token.Semicolon)
	return &ast.ExprStmt{Expression: expr}
}

// ---------- Patterns ----------

func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Kind {
	case token.Underscore:
		tok := p.cur
		p.nextToken()
		return &ast.WildcardPattern{UnderscorePos: tok.Pos}

	case token.Ident:
		tok := p.cur
		p.nextToken()
		if p.cur.Kind == token.LBrace {
			return p.parseStructPattern(tok)
		}
		return &ast.IdentPattern{Name: tok.Lexeme, NamePos: tok.Pos}

	case token.LParen:
		lpTok := p.cur
		p.nextToken()
		pat := &ast.TuplePattern{LParen: lpTok.Pos}
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			pat.Elems = append(pat.Elems, p.parsePattern())
			if p.cur.Kind == token.Comma {
				p.nextToken()
			}
		}
		p.expect(token.RParen)
		return pat

	case token.Int, token.Float, token.String, token.Char, token.True, token.False, token.Minus:
		return &ast.LiteralPattern{Value: p.parseUnary()}

	default:
		p.errorf(p.cur.Pos, "expected pattern, got %s (%q)", p.cur.Kind, p.cur.Lexeme)
		tok := p.cur
		p.nextToken()
		return &ast.WildcardPattern{UnderscorePos: tok.Pos}
	}
}

func (p *Parser) parseStructPattern(nameTok token.Token) ast.Pattern {
	pat := &ast.StructPattern{Name: nameTok.Lexeme, NamePos: nameTok.Pos}

	p.expect(token.LBrace)
	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		fieldTok := p.expect(token.Ident)
		p.expect(token.Colon)
		sub := p.parsePattern()
		pat.Fields = append(pat.Fields, &ast.FieldPattern{
			Name:    fieldTok.Lexeme,
			NamePos: fieldTok.Pos,
			Pattern: sub,
		})
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	p.expect(token.RBrace)
	return pat
}

// ---------- Expressions ----------

func (p *Parser) parseExpr() ast.Expr {
	// assignment: ident = expr
	if p.cur.Kind == token.Ident && p.peek.Kind == token.Assign {
		targetTok := p.cur
		p.nextToken() // ident
		p.nextToken() // =
		value := p.parseExpr()
		return &ast.AssignExpr{
			Target:    targetTok.Lexeme,
			TargetPos: targetTok.Pos,
			Value:     value,
		}
	}
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.cur.Kind == token.OrOr {
		opTok := p.cur
		p.nextToken()
		right := p.parseAnd()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.cur.Kind == token.AndAnd {
		opTok := p.cur
		p.nextToken()
		right := p.parseEquality()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.cur.Kind == token.Eq || p.cur.Kind == token.NotEq {
		opTok := p.cur
		p.nextToken()
		right := p.parseRelational()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.cur.Kind == token.Lt || p.cur.Kind == token.LtEq ||
		p.cur.Kind == token.Gt || p.cur.Kind == token.GtEq {
		opTok := p.cur
		p.nextToken()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.Kind == token.Plus || p.cur.Kind == token.Minus {
		opTok := p.cur
		p.nextToken()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur.Kind == token.Star || p.cur.Kind == token.Slash || p.cur.Kind == token.Percent {
		opTok := p.cur
		p.nextToken()
		right := p.parseUnary()
		left = &ast.BinaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.cur.Kind == token.Minus || p.cur.Kind == token.Bang {
		opTok := p.cur
		p.nextToken()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			OpPos: opTok.Pos,
			Op:    opTok.Kind,
			X:     operand,
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.Int:
		tok := p.cur
		p.nextToken()
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLiteral{Value: n, LitPos: tok.Pos, Raw: tok.Lexeme}

	case token.Float:
		tok := p.cur
		p.nextToken()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLiteral{Value: f, LitPos: tok.Pos, Raw: tok.Lexeme}

	case token.String:
		tok := p.cur
		p.nextToken()
		return &ast.StringLiteral{Value: tok.Lexeme, LitPos: tok.Pos}

	case token.Char:
		tok := p.cur
		p.nextToken()
		var r rune
		for _, c := range tok.Lexeme {
			r = c
			break
		}
		return &ast.CharLiteral{Value: r, LitPos: tok.Pos}

	case token.True:
		tok := p.cur
		p.nextToken()
		return &ast.BoolLiteral{Value: true, LitPos: tok.Pos}

	case token.False:
		tok := p.cur
		p.nextToken()
		return &ast.BoolLiteral{Value: false, LitPos: tok.Pos}

	case token.Ident:
		tok := p.cur
		p.nextToken()
		if p.cur.Kind == token.LParen {
			return p.parseCall(tok)
		}
		return &ast.IdentExpr{Name: tok.Lexeme, NamePos: tok.Pos}

	case token.LBracket:
		return p.parseArrayLiteral()

	case token.LParen:
		return p.parseGroupOrTuple()

	default:
		p.errorf(p.cur.Pos, "unexpected token in expression: %s (%q)", p.cur.Kind, p.cur.Lexeme)
		tok := p.cur
		p.nextToken()
		return &ast.IntLiteral{Value: 0, LitPos: tok.Pos, Raw: "0"}
	}
}

func (p *Parser) parseCall(nameTok token.Token) ast.Expr {
	lpTok := p.expect(token.LParen)
	call := &ast.CallExpr{
		Callee:  nameTok.Lexeme,
		NamePos: nameTok.Pos,
		LParen:  lpTok.Pos,
	}

	for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
		call.Args = append(call.Args, p.parseExpr())
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	rpTok := p.expect(token.RParen)
	call.RParen = rpTok.Pos
	return call
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	lbTok := p.expect(token.LBracket)
	lit := &ast.ArrayLiteral{LBracket: lbTok.Pos}

	for p.cur.Kind != token.RBracket && p.cur.Kind != token.EOF {
		lit.Elements = append(lit.Elements, p.parseExpr())
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	rbTok := p.expect(token.RBracket)
	lit.RBracket = rbTok.Pos
	return lit
}

// parseGroupOrTuple disambiguates (expr) from (e1, e2, ...).
func (p *Parser) parseGroupOrTuple() ast.Expr {
	lpTok := p.expect(token.LParen)

	var elems []ast.Expr
	for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
		elems = append(elems, p.parseExpr())
		if p.cur.Kind == token.Comma {
			p.nextToken()
		}
	}
	rpTok := p.expect(token.RParen)

	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleLiteral{
		LParen:   lpTok.Pos,
		Elements: elems,
		RParen:   rpTok.Pos,
	}
}
