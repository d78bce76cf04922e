package formulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{`\function(x)`, `\function`, true},
		{`\function(a, b)`, `\function`, true},
		{`X \set.in/ Y`, `\set.in/`, true},
		{`\set.in{X}`, `\set.in`, true},
		{`\a:on{x}:to{y}`, `\a:on:to`, true},
		{`\real.sqrt[n]_i^j{x}`, `\real.sqrt`, true},
		{`\real.+`, `\real.+`, true},
		{`a + b`, `+`, true},
		{`a + b * c`, `*`, true},
		{`x`, ``, false},
		{`f x`, ``, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			root := mustParse(t, tt.input)
			sig, ok := Signature(root)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, sig)
		})
	}
}

func TestSignatureIgnoresArguments(t *testing.T) {
	t.Parallel()
	a, _ := Signature(mustParse(t, `\f{x}(y):on{z}`))
	b, _ := Signature(mustParse(t, `\f{1 + 2}{3}(a, b, c):on{\g}`))
	assert.Equal(t, a, b)
}

func TestShape(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{`\f(x)`, `\f()`},
		{`\f(a, b)`, `\f(,)`},
		{`\f(x...)`, `\f(...)`},
		{`\and{form}...`, `\and{}...`},
		{`\and{a}{b}...`, `\and{}...`},
		{`\and{a}{b}`, `\and{}{}`},
		{`\f[x]_{i}^{j}{a, b}:on{c}`, `\f[]_{}^{}{,}:on{}`},
		{`\real.sqrt{x}`, `\real.sqrt{}`},
		{`\set.in/`, `\set.in/`},
		{`\real.+`, `\real.+`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			root := mustParse(t, tt.input)
			require.Len(t, root.Children, 1)
			cmd, ok := root.Children[0].(*Command)
			require.True(t, ok)
			assert.Equal(t, tt.expected, Shape(cmd))
		})
	}
}

func TestShapeDistinguishesArity(t *testing.T) {
	t.Parallel()
	shape := func(input string) string {
		return Shape(mustParse(t, input).Children[0].(*Command))
	}
	assert.Equal(t, shape(`\f(x)`), shape(`\f(y)`))
	assert.NotEqual(t, shape(`\f(x)`), shape(`\f(a, b)`))
}
