package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAdd(t *testing.T) {
	t.Parallel()
	table := NewTable()

	warnings, err := table.Add(RuleDef{Name: "in", Pattern: `A \set.in/ B`, Template: `A? \in B?`})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	rules := table.Lookup(`\set.in/`)
	require.Len(t, rules, 1)
	assert.Equal(t, "in", rules[0].Name)
	assert.Equal(t, `\set.in/`, rules[0].Signature)
	assert.Equal(t, []string{"A", "B"}, rules[0].Template.Names())

	assert.True(t, table.Has(`\set.in/`))
	assert.False(t, table.Has(`\set.in`))
	assert.Equal(t, 1, table.Len())
}

func TestTableAddErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		def     RuleDef
		message string
	}{
		{
			name:    "pattern with syntax errors",
			def:     RuleDef{Name: "broken", Pattern: `\f(x`, Template: `x?`},
			message: `rule 'broken': invalid pattern '\f(x': expected ) but found end of input`,
		},
		{
			name:    "pattern without an operator",
			def:     RuleDef{Name: "ident", Pattern: `x`, Template: `x?`},
			message: `rule 'ident': pattern 'x' is not a command or an operator`,
		},
		{
			name:    "unnamed rules use their pattern",
			def:     RuleDef{Pattern: `f x`, Template: `x?`},
			message: `rule 'f x': pattern 'f x' is not a command or an operator`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			table := NewTable()
			_, err := table.Add(tt.def)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, 0, table.Len())
		})
	}
}

func TestTableWarnings(t *testing.T) {
	t.Parallel()
	table := NewTable()

	warnings, err := table.Add(RuleDef{Name: "pair", Pattern: `\pair(x, y)`, Template: `\langle x? \rangle`})
	require.NoError(t, err)
	assert.Equal(t, []string{`rule 'pair': 'y' is captured but never used in the template`}, warnings)

	warnings, err = table.Add(RuleDef{Name: "pair2", Pattern: `\pair(a, b)`, Template: `a?, b?`})
	require.NoError(t, err)
	assert.Equal(t, []string{`rule 'pair2' has the same shape as rule 'pair' and is never reached`}, warnings)

	warnings, err = table.Add(RuleDef{Name: "triple", Pattern: `\pair(a, b, c)`, Template: `a? b? c?`})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	warnings, err = table.Add(RuleDef{Name: "group", Pattern: `\g{x}...`, Template: `x{a}?`})
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "rule 'group': placeholder 'x{a}?'")

	rules := table.Lookup(`\pair`)
	require.Len(t, rules, 3)
	assert.Equal(t, "pair", rules[0].Name)
	assert.Equal(t, "pair2", rules[1].Name)
	assert.Equal(t, "triple", rules[2].Name)
}

func TestTableOperandsAreShape(t *testing.T) {
	t.Parallel()
	table := NewTable()

	_, err := table.Add(RuleDef{Name: "minus", Pattern: `a - b`, Template: `a? b?`})
	require.NoError(t, err)
	warnings, err := table.Add(RuleDef{Name: "negate", Pattern: `-a`, Template: `a?`})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, table.Lookup("-"), 2)
}

func TestTableSignatures(t *testing.T) {
	t.Parallel()
	table, warnings := BuildTable([]RuleDef{
		{Name: "in", Pattern: `A \set.in/ B`, Template: `A? \in B?`},
		{Name: "and", Pattern: `\and{form}...`, Template: `form{... \wedge ...}?`},
		{Name: "plus", Pattern: `a + b`, Template: `a? + b?`},
		{Name: "bad", Pattern: `x`, Template: `x?`},
	})

	assert.Equal(t, []string{"+", `\and`, `\set.in/`}, table.Signatures())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{`rule 'bad': pattern 'x' is not a command or an operator`}, warnings)
}
