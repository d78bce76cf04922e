package formulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorTree(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		left  string
		head  string
		right string
	}{
		{"left associative", "a + b * c", "a + b", "*", "c"},
		{"infix command is loosest", `X \set.in/ Y + Z`, "X", `\set.in/`, "Y + Z"},
		{"chain below infix", `a ... b`, "a", "...", "b"},
		{"scripts bind tightest", "x_i + 1", "x_i", "+", "1"},
		{"prefix", "-x", "", "-", "x"},
		{"postfix", "n !", "n", "!", ""},
		{"braced operand stays a group", `{X + Y} \set.in/ {A + B}`, "{X + Y}", `\set.in/`, "{A + B}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := mustParse(t, tt.input)
			op, ok := OperatorTree(root.Children).(*Operator)
			require.True(t, ok)
			assert.Equal(t, tt.left, Print(op.Left))
			assert.Equal(t, tt.head, Print(op.Head))
			assert.Equal(t, tt.right, Print(op.Right))
		})
	}
}

func TestOperatorTreeWithoutOperator(t *testing.T) {
	t.Parallel()
	assert.Nil(t, OperatorTree(nil))

	single := mustParse(t, "x")
	assert.Same(t, single.Children[0], OperatorTree(single.Children))

	juxtaposed := mustParse(t, "f x")
	expr, ok := OperatorTree(juxtaposed.Children).(*Expression)
	require.True(t, ok)
	assert.Len(t, expr.Children, 2)
}

func TestAsOperator(t *testing.T) {
	t.Parallel()

	op, ok := AsOperator(mustParse(t, `\f(x)`))
	require.True(t, ok)
	assert.Nil(t, op.Left)
	assert.Nil(t, op.Right)
	assert.Equal(t, NodeCommand, op.Head.Type())

	op, ok = AsOperator(mustParse(t, "a = b"))
	require.True(t, ok)
	assert.Equal(t, "=", Print(op.Head))

	_, ok = AsOperator(mustParse(t, "x"))
	assert.False(t, ok)
	_, ok = AsOperator(mustParse(t, ""))
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	t.Parallel()
	op, ok := Chain(mustParse(t, "x_1 ... x_n"))
	require.True(t, ok)
	assert.Equal(t, "x_1", Print(op.Left))
	assert.Equal(t, "x_n", Print(op.Right))

	_, ok = Chain(mustParse(t, "a + b"))
	assert.False(t, ok)
}

func TestUngroup(t *testing.T) {
	t.Parallel()
	root := mustParse(t, `{x + y} (a) {a, b}`)

	assert.Equal(t, "x + y", Print(Ungroup(root.Children[0])))
	assert.Same(t, root.Children[1], Ungroup(root.Children[1]))
	assert.Same(t, root.Children[2], Ungroup(root.Children[2]))
}

func TestIsComplex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected bool
	}{
		{"x", false},
		{`\f(a, b)`, false},
		{"a + b", true},
		{"-x", true},
		{"f x", true},
		{"", false},
		{"{x}", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			root := mustParse(t, tt.input)
			assert.Equal(t, tt.expected, IsComplex(OperatorTree(root.Children)))
		})
	}

	assert.False(t, IsComplex(&Operator{Head: &Text{Kind: TextOperator, Value: "+"}}))
	assert.False(t, IsComplex(&Expression{Children: []Node{&Text{Kind: TextIdentifier, Value: "x"}}}))
}
