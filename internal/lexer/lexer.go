package lexer

import (
	"unicode"

	"sable/internal/token"
)

type Lexer struct {
	input []rune

	pos int

	ch   rune
	line int
	col  int
}

func New(input string) *Lexer {
	l := &Lexer{
		input: []rune(input),
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := token.Position{
		Line:   l.line,
		Column: l.col,
	}

	ch := l.ch

	// EOF
	if ch == 0 {
		return token.Token{
			Kind:   token.EOF,
			Lexeme: "",
			Pos:    pos,
		}
	}

	// Numbers
	if isDigit(ch) {
		lit := l.readNumber()
		kind := token.Int
		for _, r := range lit {
			if r == '.' || r == 'e' || r == 'E' {
				kind = token.Float
				break
			}
		}
		return token.Token{
			Kind:   kind,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Identifiers / keywords
	if isLetter(ch) {
		lit := l.readIdentifier()
		kind := token.LookupIdent(lit)
		return token.Token{
			Kind:   kind,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Strings
	if ch == '"' {
		l.readChar() // consume opening quote
		lit, ok := l.readString()
		if !ok {
			return token.Token{Kind: token.Illegal, Lexeme: lit, Pos: pos}
		}
		return token.Token{
			Kind:   token.String,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Character literals
	if ch == '\'' {
		l.readChar() // consume opening quote
		lit, ok := l.readCharLiteral()
		if !ok {
			return token.Token{Kind: token.Illegal, Lexeme: lit, Pos: pos}
		}
		return token.Token{
			Kind:   token.Char,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Single- and two-character tokens
	var kind token.Kind
	var lexeme string

	switch ch {
	case ';':
		kind = token.Semicolon
		lexeme = ";"
	case ',':
		kind = token.Comma
		lexeme = ","
	case ':':
		kind = token.Colon
		lexeme = ":"
	case '@':
		kind = token.At
		lexeme = "@"
	case '(':
		kind = token.LParen
		lexeme = "("
	case ')':
		kind = token.RParen
		lexeme = ")"
	case '{':
		kind = token.LBrace
		lexeme = "{"
	case '}':
		kind = token.RBrace
		lexeme = "}"
	case '[':
		kind = token.LBracket
		lexeme = "["
	case ']':
		kind = token.RBracket
		lexeme = "]"
	case '+':
		kind = token.Plus
		lexeme = "+"
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			kind = token.Arrow
			lexeme = "->"
		} else {
			kind = token.Minus
			lexeme = "-"
		}
	case '*':
		kind = token.Star
		lexeme = "*"
	case '/':
		kind = token.Slash
		lexeme = "/"
	case '%':
		kind = token.Percent
		lexeme = "%"
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.NotEq
			lexeme = "!="
		} else {
			kind = token.Bang
			lexeme = "!"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			kind = token.AndAnd
			lexeme = "&&"
		} else {
			kind = token.Illegal
			lexeme = "&"
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			kind = token.OrOr
			lexeme = "||"
		} else {
			kind = token.Illegal
			lexeme = "|"
		}
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			kind = token.Eq
			lexeme = "=="
		case '>':
			l.readChar()
			kind = token.FatArrow
			lexeme = "=>"
		default:
			kind = token.Assign
			lexeme = "="
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.LtEq
			lexeme = "<="
		} else {
			kind = token.Lt
			lexeme = "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.GtEq
			lexeme = ">="
		} else {
			kind = token.Gt
			lexeme = ">"
		}
	default:
		kind = token.Illegal
		lexeme = string(ch)
	}

	l.readChar()

	return token.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Pos:    pos,
	}
}

// Helpers

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]
	l.pos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Line comments: // until end of line
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readNumber() string {
	var out []rune
	for isDigit(l.ch) {
		out = append(out, l.ch)
		l.readChar()
	}
	// Fractional part. A trailing '.' without a digit belongs to the next
	// token, so only consume it when a digit follows.
	if l.ch == '.' && isDigit(l.peekChar()) {
		out = append(out, l.ch)
		l.readChar()
		for isDigit(l.ch) {
			out = append(out, l.ch)
			l.readChar()
		}
	}
	// Exponent
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			out = append(out, l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				out = append(out, l.ch)
				l.readChar()
			}
			for isDigit(l.ch) {
				out = append(out, l.ch)
				l.readChar()
			}
		}
	}
	return string(out)
}

func (l *Lexer) readIdentifier() string {
	var out []rune
	for isLetter(l.ch) || isDigit(l.ch) {
		out = append(out, l.ch)
		l.readChar()
	}
	return string(out)
}

// readString reads until the closing quote, handling escapes.
// The opening quote has already been consumed.
func (l *Lexer) readString() (string, bool) {
	var out []rune
	for {
		switch l.ch {
		case 0, '\n':
			return string(out), false // unterminated
		case '"':
			l.readChar() // consume closing quote
			return string(out), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '0':
				out = append(out, 0)
			default:
				return string(out), false
			}
			l.readChar()
		default:
			out = append(out, l.ch)
			l.readChar()
		}
	}
}

// readCharLiteral reads a single (possibly escaped) character and the
// closing quote. The opening quote has already been consumed.
func (l *Lexer) readCharLiteral() (string, bool) {
	var ch rune
	switch l.ch {
	case 0, '\n', '\'':
		return "", false
	case '\\':
		l.readChar()
		switch l.ch {
		case 'n':
			ch = '\n'
		case 't':
			ch = '\t'
		case 'r':
			ch = '\r'
		case '\\':
			ch = '\\'
		case '\'':
			ch = '\''
		case '"':
			ch = '"'
		case '0':
			ch = 0
		default:
			return "", false
		}
	default:
		ch = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return string(ch), false
	}
	l.readChar() // consume closing quote
	return string(ch), true
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}
