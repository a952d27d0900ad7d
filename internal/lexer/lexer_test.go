package lexer_test

import (
	"testing"

	"sable/internal/lexer"
	"sable/internal/token"
)

func TestNextToken_BasicProgram(t *testing.T) {
	input := `fn main() -> int {
    let a: int = 10;
    let b = "Test";
    let c @3 = true;
    return a;
}
`

	tests := []struct {
		kind token.Kind
		lit  string
	}{
		{token.Fn, "fn"},
		{token.Ident, "main"},
		{token.LParen, "("},
		{token.RParen, ")"},
		{token.Arrow, "->"},
		{token.IntType, "int"},
		{token.LBrace, "{"},

		{token.Let, "let"},
		{token.Ident, "a"},
		{token.Colon, ":"},
		{token.IntType, "int"},
		{token.Assign, "="},
		{token.Int, "10"},
		{token.Semicolon, ";"},

		{token.Let, "let"},
		{token.Ident, "b"},
		{token.Assign, "="},
		{token.String, "Test"},
		{token.Semicolon, ";"},

		{token.Let, "let"},
		{token.Ident, "c"},
		{token.At, "@"},
		{token.Int, "3"},
		{token.Assign, "="},
		{token.True, "true"},
		{token.Semicolon, ";"},

		{token.Return, "return"},
		{token.Ident, "a"},
		{token.Semicolon, ";"},

		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d]: wrong kind, expected %s, got %s (%q)",
				i, tt.kind, tok.Kind, tok.Lexeme)
		}
		if tok.Lexeme != tt.lit {
			t.Fatalf("tests[%d]: wrong lexeme, expected %q, got %q",
				i, tt.lit, tok.Lexeme)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := `+ - * / % == != < <= > >= && || ! = -> => @ _`

	tests := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.Bang, token.Assign,
		token.Arrow, token.FatArrow, token.At, token.Underscore,
		token.EOF,
	}

	l := lexer.New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d]: expected %s, got %s (%q)", i, want, tok.Kind, tok.Lexeme)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		lit   string
	}{
		{"42", token.Int, "42"},
		{"3.14", token.Float, "3.14"},
		{"1e10", token.Float, "1e10"},
		{"2.5e-3", token.Float, "2.5e-3"},
		{"7", token.Int, "7"},
	}

	for _, tt := range tests {
		l := lexer.New(tt.input)
		tok := l.NextToken()
		if tok.Kind != tt.kind || tok.Lexeme != tt.lit {
			t.Errorf("%q: expected %s %q, got %s %q",
				tt.input, tt.kind, tt.lit, tok.Kind, tok.Lexeme)
		}
	}

	// A trailing dot is not part of the number.
	l := lexer.New("1.foo")
	tok := l.NextToken()
	if tok.Kind != token.Int || tok.Lexeme != "1" {
		t.Errorf("expected Int \"1\", got %s %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := lexer.New(`"a\tb\nc\"d"`)
	tok := l.NextToken()
	if tok.Kind != token.String {
		t.Fatalf("expected String, got %s", tok.Kind)
	}
	if tok.Lexeme != "a\tb\nc\"d" {
		t.Fatalf("unexpected string value %q", tok.Lexeme)
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := lexer.New(`"never closed`)
	tok := l.NextToken()
	if tok.Kind != token.Illegal {
		t.Fatalf("expected Illegal, got %s (%q)", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_CharLiterals(t *testing.T) {
	tests := []struct {
		input string
		lit   string
	}{
		{`'x'`, "x"},
		{`'\n'`, "\n"},
		{`'\''`, "'"},
	}
	for _, tt := range tests {
		l := lexer.New(tt.input)
		tok := l.NextToken()
		if tok.Kind != token.Char || tok.Lexeme != tt.lit {
			t.Errorf("%q: expected Char %q, got %s %q",
				tt.input, tt.lit, tok.Kind, tok.Lexeme)
		}
	}

	l := lexer.New(`'ab'`)
	tok := l.NextToken()
	if tok.Kind != token.Illegal {
		t.Errorf("expected Illegal for multi-rune char, got %s", tok.Kind)
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := `// leading comment
let x = 1; // trailing
// closing
`
	tests := []token.Kind{
		token.Let, token.Ident, token.Assign, token.Int, token.Semicolon,
		token.EOF,
	}

	l := lexer.New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d]: expected %s, got %s (%q)", i, want, tok.Kind, tok.Lexeme)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := `fn let if else return while for in match type true false most_high most_low vec mat tensor quat complex`

	tests := []token.Kind{
		token.Fn, token.Let, token.If, token.Else, token.Return,
		token.While, token.For, token.In, token.Match, token.Type,
		token.True, token.False, token.MostHighSent, token.MostLowSent,
		token.VecType, token.MatType, token.TensorType, token.QuatType,
		token.ComplexType,
	}

	l := lexer.New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d]: expected %s, got %s (%q)", i, want, tok.Kind, tok.Lexeme)
		}
	}
}

func TestNextToken_Positions(t *testing.T) {
	input := "let x = 1;\nlet y = 2;"

	l := lexer.New(input)
	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", first.Pos.Line, first.Pos.Column)
	}

	// skip to the second line's let
	for i := 0; i < 4; i++ {
		l.NextToken()
	}
	second := l.NextToken()
	if second.Kind != token.Let {
		t.Fatalf("expected Let, got %s", second.Kind)
	}
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Errorf("second let at %d:%d, want 2:1", second.Pos.Line, second.Pos.Column)
	}
}
