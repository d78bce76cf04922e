package formulation

import "fmt"

// TokenType defines the type of a formulation token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenInvalid
	TokenName             // x, set, 123
	TokenOperator         // +, <=, /
	TokenIs               // is
	TokenColonEquals      // :=
	TokenColonColonEquals // ::=
	TokenBackslash        // \
	TokenLParen           // (
	TokenRParen           // )
	TokenLSquare          // [
	TokenRSquare          // ]
	TokenLCurly           // {
	TokenRCurly           // }
	TokenUnderscore       // _
	TokenCaret            // ^
	TokenComma            // ,
	TokenPeriod           // .
	TokenColon            // :
	TokenDotDotDot        // ...
)

var tokenNames = map[TokenType]string{
	TokenEOF:              "end of input",
	TokenInvalid:          "invalid",
	TokenName:             "name",
	TokenOperator:         "operator",
	TokenIs:               "is",
	TokenColonEquals:      ":=",
	TokenColonColonEquals: "::=",
	TokenBackslash:        `\`,
	TokenLParen:           "(",
	TokenRParen:           ")",
	TokenLSquare:          "[",
	TokenRSquare:          "]",
	TokenLCurly:           "{",
	TokenRCurly:           "}",
	TokenUnderscore:       "_",
	TokenCaret:            "^",
	TokenComma:            ",",
	TokenPeriod:           ".",
	TokenColon:            ":",
	TokenDotDotDot:        "...",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a lexical token. Row and Column are 1-based and count
// runes; Offset is the byte offset of the token in the input.
type Token struct {
	Type   TokenType
	Text   string
	Row    int
	Column int
	Offset int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Position returns where the token starts.
func (t Token) Position() Position {
	return Position{Row: t.Row, Column: t.Column}
}

// Position is a row/column pair. A value of -1 means the position is unknown,
// which is the case for placeholder nodes synthesized during error recovery.
type Position struct {
	Row    int
	Column int
}

// NoPosition marks synthesized nodes.
var NoPosition = Position{Row: -1, Column: -1}

// Known reports whether the position refers to a location in the input.
func (p Position) Known() bool {
	return p.Row >= 0 && p.Column >= 0
}

func (p Position) String() string {
	if !p.Known() {
		return "unknown position"
	}
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Diagnostic is a problem found while tokenizing or parsing a formulation.
type Diagnostic struct {
	Message string
	Row     int
	Column  int
}

func newDiagnostic(pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Row: pos.Row, Column: pos.Column}
}

// Position returns the location the diagnostic refers to.
func (d Diagnostic) Position() Position {
	return Position{Row: d.Row, Column: d.Column}
}

func (d Diagnostic) String() string {
	if d.Row < 0 || d.Column < 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Row, d.Column, d.Message)
}
