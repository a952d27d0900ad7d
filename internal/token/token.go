package token

import "fmt"

type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident  // Identifier
	Int    // Integer
	Float  // Floating-point number
	String // String literal
	Char   // Character literal

	// Keywords
	Fn
	Let
	If
	Else
	Return
	While
	For
	In
	Match
	Type
	True
	False

	// Type keywords
	UnitType       // unit
	IntType        // int
	FloatType      // float
	StringType     // string
	BoolType       // bool
	CharType       // char
	VoidType       // void
	VecType        // vec
	MatType        // mat
	TensorType     // tensor
	QuatType       // quat
	ComplexType    // complex
	MostHighSent   // most_high
	MostLowSent    // most_low
	Underscore     // _

	// Operators
	Assign // =

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %

	Bang   // !
	AndAnd // &&
	OrOr   // ||

	Eq    // ==
	NotEq // !=
	Lt    // <
	LtEq  // <=
	Gt    // >
	GtEq  // >=

	// Symbols
	Comma     // ,
	Semicolon // ;
	Colon     // :
	At        // @
	Arrow     // ->
	FatArrow  // =>

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

type Position struct {
	Line   int
	Column int
}

type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (k Kind) String() string {
	switch k {
	case Illegal:
		return "Illegal"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Char:
		return "Char"
	case Fn:
		return "Fn"
	case Let:
		return "Let"
	case If:
		return "If"
	case Else:
		return "Else"
	case Return:
		return "Return"
	case While:
		return "While"
	case For:
		return "For"
	case In:
		return "In"
	case Match:
		return "Match"
	case Type:
		return "Type"
	case True:
		return "True"
	case False:
		return "False"
	case UnitType:
		return "UnitType"
	case IntType:
		return "IntType"
	case FloatType:
		return "FloatType"
	case StringType:
		return "StringType"
	case BoolType:
		return "BoolType"
	case CharType:
		return "CharType"
	case VoidType:
		return "VoidType"
	case VecType:
		return "VecType"
	case MatType:
		return "MatType"
	case TensorType:
		return "TensorType"
	case QuatType:
		return "QuatType"
	case ComplexType:
		return "ComplexType"
	case MostHighSent:
		return "MostHigh"
	case MostLowSent:
		return "MostLow"
	case Underscore:
		return "Underscore"
	case Assign:
		return "="
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Percent:
		return "%"
	case Bang:
		return "!"
	case AndAnd:
		return "&&"
	case OrOr:
		return "||"
	case Eq:
		return "=="
	case NotEq:
		return "!="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case Colon:
		return ":"
	case At:
		return "@"
	case Arrow:
		return "->"
	case FatArrow:
		return "=>"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var keywords = map[string]Kind{
	"fn":     Fn,
	"let":    Let,
	"if":     If,
	"else":   Else,
	"return": Return,
	"while":  While,
	"for":    For,
	"in":     In,
	"match":  Match,
	"type":   Type,
	"true":   True,
	"false":  False,

	"unit":    UnitType,
	"int":     IntType,
	"float":   FloatType,
	"string":  StringType,
	"bool":    BoolType,
	"char":    CharType,
	"void":    VoidType,
	"vec":     VecType,
	"mat":     MatType,
	"tensor":  TensorType,
	"quat":    QuatType,
	"complex": ComplexType,

	"most_high": MostHighSent,
	"most_low":  MostLowSent,

	"_": Underscore,
}

func LookupIdent(lit string) Kind {
	if kind, ok := keywords[lit]; ok {
		return kind
	}
	return Ident
}
