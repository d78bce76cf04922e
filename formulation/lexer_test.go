package formulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "infix command",
			input: `\set.in/ Y`,
			expected: []Token{
				{Type: TokenBackslash, Text: `\`, Row: 1, Column: 1, Offset: 0},
				{Type: TokenName, Text: "set", Row: 1, Column: 2, Offset: 1},
				{Type: TokenPeriod, Text: ".", Row: 1, Column: 5, Offset: 4},
				{Type: TokenName, Text: "in", Row: 1, Column: 6, Offset: 5},
				{Type: TokenOperator, Text: "/", Row: 1, Column: 8, Offset: 7},
				{Type: TokenName, Text: "Y", Row: 1, Column: 10, Offset: 9},
				{Type: TokenEOF, Row: 1, Column: 11, Offset: 10},
			},
		},
		{
			name:  "colon equals",
			input: "x := y",
			expected: []Token{
				{Type: TokenName, Text: "x", Row: 1, Column: 1, Offset: 0},
				{Type: TokenColonEquals, Text: ":=", Row: 1, Column: 3, Offset: 2},
				{Type: TokenName, Text: "y", Row: 1, Column: 6, Offset: 5},
				{Type: TokenEOF, Row: 1, Column: 7, Offset: 6},
			},
		},
		{
			name:  "colon colon equals without spaces",
			input: "a::=b",
			expected: []Token{
				{Type: TokenName, Text: "a", Row: 1, Column: 1, Offset: 0},
				{Type: TokenColonColonEquals, Text: "::=", Row: 1, Column: 2, Offset: 1},
				{Type: TokenName, Text: "b", Row: 1, Column: 5, Offset: 4},
				{Type: TokenEOF, Row: 1, Column: 6, Offset: 5},
			},
		},
		{
			name:  "named group colon",
			input: ":on",
			expected: []Token{
				{Type: TokenColon, Text: ":", Row: 1, Column: 1, Offset: 0},
				{Type: TokenName, Text: "on", Row: 1, Column: 2, Offset: 1},
				{Type: TokenEOF, Row: 1, Column: 4, Offset: 3},
			},
		},
		{
			name:  "question marks before ellipsis",
			input: "x?...",
			expected: []Token{
				{Type: TokenName, Text: "x?", Row: 1, Column: 1, Offset: 0},
				{Type: TokenDotDotDot, Text: "...", Row: 1, Column: 3, Offset: 2},
				{Type: TokenEOF, Row: 1, Column: 6, Offset: 5},
			},
		},
		{
			name:  "question mark without ellipsis is an operator",
			input: "x?",
			expected: []Token{
				{Type: TokenName, Text: "x", Row: 1, Column: 1, Offset: 0},
				{Type: TokenOperator, Text: "?", Row: 1, Column: 2, Offset: 1},
				{Type: TokenEOF, Row: 1, Column: 3, Offset: 2},
			},
		},
		{
			name:  "is is reserved but island is a name",
			input: "is island",
			expected: []Token{
				{Type: TokenIs, Text: "is", Row: 1, Column: 1, Offset: 0},
				{Type: TokenName, Text: "island", Row: 1, Column: 4, Offset: 3},
				{Type: TokenEOF, Row: 1, Column: 10, Offset: 9},
			},
		},
		{
			name:  "operator run and scripts",
			input: "x_i^2 <= y",
			expected: []Token{
				{Type: TokenName, Text: "x", Row: 1, Column: 1, Offset: 0},
				{Type: TokenUnderscore, Text: "_", Row: 1, Column: 2, Offset: 1},
				{Type: TokenName, Text: "i", Row: 1, Column: 3, Offset: 2},
				{Type: TokenCaret, Text: "^", Row: 1, Column: 4, Offset: 3},
				{Type: TokenName, Text: "2", Row: 1, Column: 5, Offset: 4},
				{Type: TokenOperator, Text: "<=", Row: 1, Column: 7, Offset: 6},
				{Type: TokenName, Text: "y", Row: 1, Column: 10, Offset: 9},
				{Type: TokenEOF, Row: 1, Column: 11, Offset: 10},
			},
		},
		{
			name:  "rows and columns across lines",
			input: "a\n  b",
			expected: []Token{
				{Type: TokenName, Text: "a", Row: 1, Column: 1, Offset: 0},
				{Type: TokenName, Text: "b", Row: 2, Column: 3, Offset: 4},
				{Type: TokenEOF, Row: 2, Column: 4, Offset: 5},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens, diags := Tokenize(tt.input)
			assert.Empty(t, diags)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizeInvalidCharacter(t *testing.T) {
	t.Parallel()
	tokens, diags := Tokenize(`a"b`)

	assert.Len(t, tokens, 4)
	assert.Equal(t, TokenInvalid, tokens[1].Type)
	assert.Equal(t, TokenName, tokens[2].Type)
	assert.Equal(t, TokenEOF, tokens[3].Type)

	if assert.Len(t, diags, 1) {
		assert.Equal(t, `unrecognized character '"'`, diags[0].Message)
		assert.Equal(t, Position{Row: 1, Column: 2}, diags[0].Position())
		assert.Equal(t, `1:2: unrecognized character '"'`, diags[0].String())
	}
}

func TestTokenizeEmpty(t *testing.T) {
	t.Parallel()
	tokens, diags := Tokenize("")
	assert.Empty(t, diags)
	assert.Equal(t, []Token{{Type: TokenEOF, Row: 1, Column: 1, Offset: 0}}, tokens)
}
