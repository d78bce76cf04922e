package formulation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// operatorChars are the characters that form operator runs such as
// `+`, `<=`, `!=` or the infix command marker `/`.
const operatorChars = "~!@#$%&*-+=|<>?'/;"

var singleCharTokens = map[rune]TokenType{
	'\\': TokenBackslash,
	'(':  TokenLParen,
	')':  TokenRParen,
	'[':  TokenLSquare,
	']':  TokenRSquare,
	'{':  TokenLCurly,
	'}':  TokenRCurly,
	'_':  TokenUnderscore,
	'^':  TokenCaret,
	',':  TokenComma,
}

// Lexer scans a formulation in a single left-to-right pass.
type Lexer struct {
	input string
	pos   int // byte offset
	row   int
	col   int

	tokens      []Token
	diagnostics []Diagnostic
}

// NewLexer returns a new Lexer for the given formulation text.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		row:    1,
		col:    1,
		tokens: make([]Token, 0),
	}
}

// Tokenize lexes the whole input. It never stops early: a character that
// belongs to no token class produces a TokenInvalid and a diagnostic, and
// scanning continues. The returned tokens always end with TokenEOF.
func Tokenize(input string) ([]Token, []Diagnostic) {
	return NewLexer(input).Tokenize()
}

// Tokenize processes the entire input and produces the list of tokens.
func (l *Lexer) Tokenize() ([]Token, []Diagnostic) {
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.next()
		case isNameRune(r):
			l.lexName()
		case r == ':':
			l.lexColon()
		case r == '.':
			l.lexPeriod()
		case isOperatorRune(r):
			l.lexOperator()
		default:
			if tt, ok := singleCharTokens[r]; ok {
				start := l.mark()
				l.next()
				l.emit(tt, start)
				continue
			}
			start := l.mark()
			l.next()
			l.emit(TokenInvalid, start)
			l.diagnostics = append(l.diagnostics,
				newDiagnostic(Position{Row: start.row, Column: start.col}, "unrecognized character %q", r))
		}
	}

	l.tokens = append(l.tokens, Token{
		Type:   TokenEOF,
		Row:    l.row,
		Column: l.col,
		Offset: l.pos,
	})
	return l.tokens, l.diagnostics
}

type lexMark struct {
	offset int
	row    int
	col    int
}

func (l *Lexer) mark() lexMark {
	return lexMark{offset: l.pos, row: l.row, col: l.col}
}

// next consumes one rune and keeps row/column in sync.
func (l *Lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, true
}

func (l *Lexer) emit(tt TokenType, start lexMark) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Text:   l.input[start.offset:l.pos],
		Row:    start.row,
		Column: start.col,
		Offset: start.offset,
	})
}

// lexName scans a maximal alphanumeric run. `is` is a reserved word and is
// always lexed as TokenIs. Trailing question marks are absorbed only when
// they are directly followed by `...`, so `x?...` is one variadic name.
func (l *Lexer) lexName() {
	start := l.mark()
	for {
		r, ok := l.peekRune()
		if !ok || !isNameRune(r) {
			break
		}
		l.next()
	}

	rest := l.input[l.pos:]
	if trimmed := strings.TrimLeft(rest, "?"); len(trimmed) < len(rest) && strings.HasPrefix(trimmed, "...") {
		for i := 0; i < len(rest)-len(trimmed); i++ {
			l.next()
		}
	}

	if l.input[start.offset:l.pos] == "is" {
		l.emit(TokenIs, start)
		return
	}
	l.emit(TokenName, start)
}

func (l *Lexer) lexOperator() {
	start := l.mark()
	for {
		r, ok := l.peekRune()
		if !ok || !isOperatorRune(r) {
			break
		}
		l.next()
	}
	l.emit(TokenOperator, start)
}

// lexColon resolves `::=`, `:=` and `:` with up to two characters of lookahead.
func (l *Lexer) lexColon() {
	start := l.mark()
	rest := l.input[l.pos:]
	switch {
	case strings.HasPrefix(rest, "::="):
		l.advanceBytes(3)
		l.emit(TokenColonColonEquals, start)
	case strings.HasPrefix(rest, ":="):
		l.advanceBytes(2)
		l.emit(TokenColonEquals, start)
	default:
		l.next()
		l.emit(TokenColon, start)
	}
}

func (l *Lexer) lexPeriod() {
	start := l.mark()
	if strings.HasPrefix(l.input[l.pos:], "...") {
		l.advanceBytes(3)
		l.emit(TokenDotDotDot, start)
		return
	}
	l.next()
	l.emit(TokenPeriod, start)
}

// advanceBytes consumes n single-byte characters.
func (l *Lexer) advanceBytes(n int) {
	for i := 0; i < n; i++ {
		l.next()
	}
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isOperatorRune(r rune) bool {
	return strings.ContainsRune(operatorChars, r)
}
