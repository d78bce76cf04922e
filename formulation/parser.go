package formulation

// Parser is a recursive-descent parser over formulation tokens. It never
// aborts: a missing token is reported and replaced by a placeholder, and an
// unexpected token is reported and skipped.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a parser over tokens. A trailing TokenEOF is added when
// the slice does not already end with one.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		eof := Token{Type: TokenEOF, Row: -1, Column: -1, Offset: -1}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof = Token{Type: TokenEOF, Row: last.Row, Column: last.Column + len([]rune(last.Text)), Offset: last.End()}
		}
		tokens = append(append(make([]Token, 0, len(tokens)+1), tokens...), eof)
	}
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses a formulation. The returned expression is never
// nil; the diagnostics hold lexical errors followed by syntax errors.
func Parse(input string) (*Expression, []Diagnostic) {
	tokens, diags := Tokenize(input)
	root, parseDiags := NewParser(tokens).Parse()
	return root, append(diags, parseDiags...)
}

// Parse processes all tokens and builds the root expression, with any `is`,
// `:=` or `::=` at its top level resolved.
func (p *Parser) Parse() (*Expression, []Diagnostic) {
	expr, diags := p.expression(nil)
	resolved, more := resolveSpecial(expr)
	return resolved, append(diags, more...)
}

type tokenSet []TokenType

func (s tokenSet) has(tt TokenType) bool {
	for _, t := range s {
		if t == tt {
			return true
		}
	}
	return false
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return Token{Type: TokenEOF, Row: -1, Column: -1, Offset: -1}
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

// expect consumes a token of type tt. On mismatch the current token is left
// in place and a placeholder with an unknown position is returned.
func (p *Parser) expect(tt TokenType) (Token, []Diagnostic) {
	tok := p.peek()
	if tok.Type == tt {
		return p.advance(), nil
	}
	placeholder := Token{Type: tt, Row: -1, Column: -1, Offset: -1}
	if tok.Type == TokenEOF {
		return placeholder, []Diagnostic{newDiagnostic(NoPosition, "expected %s but found end of input", tt)}
	}
	return placeholder, []Diagnostic{newDiagnostic(tok.Position(), "expected %s but found %q", tt, tok.Text)}
}

// adjacent reports whether next starts exactly where prev ends.
func adjacent(prev, next Token) bool {
	return prev.Offset >= 0 && next.Offset >= 0 && prev.End() == next.Offset
}

func (p *Parser) expression(terminators tokenSet) (*Expression, []Diagnostic) {
	expr := &Expression{Pos: p.peek().Position()}
	var diags []Diagnostic

	for {
		tok := p.peek()
		if tok.Type == TokenEOF || terminators.has(tok.Type) {
			break
		}

		switch tok.Type {
		case TokenBackslash:
			cmd, d := p.command()
			expr.Children = append(expr.Children, cmd)
			diags = append(diags, d...)
		case TokenLParen:
			g, d := p.group(GroupParen)
			expr.Children = append(expr.Children, g)
			diags = append(diags, d...)
		case TokenLCurly:
			g, d := p.group(GroupCurly)
			expr.Children = append(expr.Children, g)
			diags = append(diags, d...)
		case TokenName:
			p.advance()
			text := &Text{Kind: TextIdentifier, Value: tok.Text, Pos: tok.Position()}
			if next := p.peek(); next.Type == TokenDotDotDot && adjacent(tok, next) {
				p.advance()
				text.IsVarArg = true
			}
			expr.Children = append(expr.Children, text)
		case TokenOperator, TokenCaret, TokenUnderscore, TokenDotDotDot:
			p.advance()
			expr.Children = append(expr.Children, &Text{Kind: TextOperator, Value: tok.Text, Pos: tok.Position()})
		case TokenComma:
			p.advance()
			expr.Children = append(expr.Children, &Text{Kind: TextComma, Value: tok.Text, Pos: tok.Position()})
		case TokenIs:
			p.advance()
			expr.Children = append(expr.Children, &Text{Kind: TextIs, Value: tok.Text, Pos: tok.Position()})
		case TokenColonEquals:
			p.advance()
			expr.Children = append(expr.Children, &Text{Kind: TextColonEquals, Value: tok.Text, Pos: tok.Position()})
		case TokenColonColonEquals:
			p.advance()
			expr.Children = append(expr.Children, &Text{Kind: TextColonColonEquals, Value: tok.Text, Pos: tok.Position()})
		case TokenInvalid:
			// already reported by the lexer
			p.advance()
		default:
			p.advance()
			diags = append(diags, newDiagnostic(tok.Position(), "unexpected %q", tok.Text))
		}
	}

	return expr, diags
}

func groupTokens(kind GroupKind) (TokenType, TokenType) {
	switch kind {
	case GroupParen:
		return TokenLParen, TokenRParen
	case GroupSquare:
		return TokenLSquare, TokenRSquare
	default:
		return TokenLCurly, TokenRCurly
	}
}

// group parses `open expr (, expr)* close` with an optional adjacent `...`.
func (p *Parser) group(kind GroupKind) (*Group, []Diagnostic) {
	openType, closeType := groupTokens(kind)
	open, diags := p.expect(openType)
	g := &Group{Kind: kind, Pos: open.Position()}

	if p.peek().Type != closeType {
		for {
			param, d := p.expression(tokenSet{TokenComma, closeType})
			diags = append(diags, d...)
			if len(param.Children) == 0 {
				diags = append(diags, newDiagnostic(p.peek().Position(), "empty parameter in %s group", kind))
			}
			param, d = resolveSpecial(param)
			diags = append(diags, d...)
			g.Params = append(g.Params, param)

			if p.peek().Type == TokenComma {
				p.advance()
				continue
			}
			break
		}
	}

	closeTok, d := p.expect(closeType)
	diags = append(diags, d...)
	if d == nil {
		if next := p.peek(); next.Type == TokenDotDotDot && adjacent(closeTok, next) {
			p.advance()
			g.IsVarArg = true
		}
	}
	return g, diags
}

// command parses `\part(.part)*`. A `.` followed by an operator or `^` adds
// one operator part and ends the command. A `/` written directly after the
// command marks it as infix.
func (p *Parser) command() (*Command, []Diagnostic) {
	backslash := p.advance()
	cmd := &Command{Pos: backslash.Position()}

	part, diags := p.commandPart()
	cmd.Parts = append(cmd.Parts, part)

	for p.peek().Type == TokenPeriod {
		p.advance()
		if next := p.peek(); next.Type == TokenOperator || next.Type == TokenCaret {
			p.advance()
			cmd.Parts = append(cmd.Parts, &CommandPart{Name: next.Text, IsOperator: true, Pos: next.Position()})
			return cmd, diags
		}
		part, d := p.commandPart()
		cmd.Parts = append(cmd.Parts, part)
		diags = append(diags, d...)
	}

	if next := p.peek(); next.Type == TokenOperator && next.Text == "/" && adjacent(p.previous(), next) {
		p.advance()
		cmd.IsInfix = true
	}
	return cmd, diags
}

func (p *Parser) commandPart() (*CommandPart, []Diagnostic) {
	name, diags := p.expect(TokenName)
	part := &CommandPart{Name: name.Text, Pos: name.Position()}

	if p.peek().Type == TokenLSquare {
		g, d := p.group(GroupSquare)
		part.Square = g
		diags = append(diags, d...)
	}

	if tt := p.peek().Type; tt == TokenUnderscore || tt == TokenCaret {
		ss, d := p.subSup()
		part.SubSup = ss
		diags = append(diags, d...)
	}

	for p.peek().Type == TokenLCurly {
		g, d := p.group(GroupCurly)
		part.Groups = append(part.Groups, g)
		diags = append(diags, d...)
	}

	if p.peek().Type == TokenLParen {
		g, d := p.group(GroupParen)
		part.Paren = g
		diags = append(diags, d...)
	}

	for p.peek().Type == TokenColon {
		p.advance()
		ng, d := p.namedGroup()
		part.NamedGroups = append(part.NamedGroups, ng)
		diags = append(diags, d...)
	}

	return part, diags
}

func (p *Parser) subSup() (*SubSup, []Diagnostic) {
	ss := &SubSup{Pos: p.peek().Position()}
	var diags []Diagnostic

	if p.peek().Type == TokenUnderscore {
		p.advance()
		g, d := p.script()
		ss.Sub = g
		diags = append(diags, d...)
	}
	if p.peek().Type == TokenCaret {
		p.advance()
		g, d := p.script()
		ss.Sup = g
		diags = append(diags, d...)
	}
	return ss, diags
}

// script parses the operand of `_` or `^`: a bare name, which is sugar for a
// curly group holding that name, or a curly or paren group.
func (p *Parser) script() (*Group, []Diagnostic) {
	switch tok := p.peek(); tok.Type {
	case TokenName:
		p.advance()
		text := &Text{Kind: TextIdentifier, Value: tok.Text, Pos: tok.Position()}
		return &Group{
			Kind:   GroupCurly,
			Params: []*Expression{{Children: []Node{text}, Pos: tok.Position()}},
			Pos:    tok.Position(),
		}, nil
	case TokenLCurly:
		return p.group(GroupCurly)
	case TokenLParen:
		return p.group(GroupParen)
	case TokenEOF:
		return &Group{Kind: GroupCurly, Pos: NoPosition},
			[]Diagnostic{newDiagnostic(NoPosition, "expected a subscript or superscript but found end of input")}
	default:
		return &Group{Kind: GroupCurly, Pos: NoPosition},
			[]Diagnostic{newDiagnostic(tok.Position(), "expected a subscript or superscript but found %q", tok.Text)}
	}
}

func (p *Parser) namedGroup() (*NamedGroup, []Diagnostic) {
	name, diags := p.expect(TokenName)
	ng := &NamedGroup{Name: name.Text, Pos: name.Position()}

	if p.peek().Type != TokenLCurly {
		_, d := p.expect(TokenLCurly)
		diags = append(diags, d...)
	}
	for p.peek().Type == TokenLCurly {
		g, d := p.group(GroupCurly)
		ng.Groups = append(ng.Groups, g)
		diags = append(diags, d...)
	}
	return ng, diags
}
