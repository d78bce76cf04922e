package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/mathlingua/mlg/internal/types"
	"github.com/mathlingua/mlg/rewrite"
)

var testRules = []rewrite.RuleDef{
	{Name: "in", Pattern: `A \set.in/ B`, Template: `A? \in B?`},
	{Name: "and", Pattern: `\and{form}...`, Template: `form{... \wedge ...}??`},
	{Name: "function", Pattern: `\function(x)`, Template: `f(x?)`},
}

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	engine, err := NewEngine(testRules, opts)
	require.NoError(t, err)
	return engine
}

func rulesOf(issues []tt.Issue) []string {
	rules := make([]string, 0, len(issues))
	for _, issue := range issues {
		rules = append(rules, issue.Rule)
	}
	return rules
}

func TestNewEngine(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, Options{})
	assert.Equal(t, []string{`\and`, `\function`, `\set.in/`}, engine.Signatures())
	assert.Empty(t, engine.RuleWarnings())

	engine, err := NewEngine([]rewrite.RuleDef{{Name: "bad", Pattern: "x", Template: "x?"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{`rule 'bad': pattern 'x' is not a command or an operator`}, engine.RuleWarnings())
}

func TestNewEngineMissingDependency(t *testing.T) {
	t.Parallel()
	_, err := NewEngine(testRules, Options{DependencyFiles: []string{"does/not/exist.yaml"}})
	assert.Error(t, err)
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()
	source := `% sets
X \set.in/ Y

\function(a, b)
  \and{a>0}{b<0}
`
	engine := newTestEngine(t, Options{})
	result := engine.RunSource("sets.mlgf", []byte(source))

	assert.Equal(t, []tt.Rendered{
		{File: "sets.mlgf", Line: 2, Source: `X \set.in/ Y`, Output: `X \in Y`},
		{File: "sets.mlgf", Line: 4, Source: `\function(a, b)`, Output: `\function(a, b)`},
		{File: "sets.mlgf", Line: 5, Source: `\and{a>0}{b<0}`, Output: `\left ( a > 0 \right ) \wedge \left ( b < 0 \right )`},
	}, result.Rendered)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, tt.Issue{
		Rule:     tt.RuleNoMatch,
		Filename: "sets.mlgf",
		Message:  `function: expected 1 argument but found 2 in '\function(a, b)'`,
		Severity: tt.SeverityWarning,
		Start:    tt.Position{Line: 4, Column: 1},
		End:      tt.Position{Line: 4, Column: 15},
	}, result.Issues[0])
	assert.False(t, result.HasErrors())
}

func TestEngine_ParseErrors(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, Options{})
	result := engine.RunSource("broken.mlgf", []byte("\\function(x\n"))

	require.NotEmpty(t, result.Issues)
	issue := result.Issues[0]
	assert.Equal(t, tt.RuleParse, issue.Rule)
	assert.Equal(t, tt.SeverityError, issue.Severity)
	assert.Equal(t, "expected ) but found end of input", issue.Message)
	assert.Equal(t, 1, issue.Start.Line)
	assert.True(t, result.HasErrors())
	assert.Len(t, result.Rendered, 1)
}

func TestEngine_UndefinedSignatures(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, Options{ReportUndefined: true})
	result := engine.RunSource("undefined.mlgf", []byte(`\g(\h{x}) + \h{y} + \function(z)`))

	require.Len(t, result.Issues, 2)
	assert.Equal(t, tt.Issue{
		Rule:     tt.RuleUndefined,
		Filename: "undefined.mlgf",
		Message:  `no rule defines '\g'`,
		Severity: tt.SeverityWarning,
		Start:    tt.Position{Line: 1, Column: 1},
		End:      tt.Position{Line: 1, Column: 2},
	}, result.Issues[0])

	assert.Equal(t, `no rule defines '\h'`, result.Issues[1].Message)
	assert.Equal(t, `used inside '\g(\h{x})'`, result.Issues[1].Note)
	assert.Equal(t, 4, result.Issues[1].Start.Column)

	quiet := newTestEngine(t, Options{})
	assert.Empty(t, quiet.RunSource("undefined.mlgf", []byte(`\g(\h{x})`)).Issues)
}

func TestEngine_Nolint(t *testing.T) {
	t.Parallel()
	source := `%nolint:undefined-signature
\g(x)
%nolint
\function(a, b)
\function(c, d)
`
	engine := newTestEngine(t, Options{ReportUndefined: true})
	result := engine.RunSource("nolint.mlgf", []byte(source))

	require.Len(t, result.Issues, 1)
	assert.Equal(t, tt.RuleNoMatch, result.Issues[0].Rule)
	assert.Equal(t, 5, result.Issues[0].Start.Line)
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, Options{ReportUndefined: true})
	engine.IgnoreRule(tt.RuleUndefined)

	assert.True(t, engine.ignoredRules[tt.RuleUndefined])
	result := engine.RunSource("ignored.mlgf", []byte(`\g(x) + \function(a, b)`))
	assert.Equal(t, []string{tt.RuleNoMatch}, rulesOf(result.Issues))
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_test")
	path := filepath.Join(tempDir, "sets.mlgf")
	require.NoError(t, os.WriteFile(path, []byte("X \\set.in/ Y\r\n"), 0o644))

	engine := newTestEngine(t, Options{})
	result, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, result.Rendered, 1)
	assert.Equal(t, `X \in Y`, result.Rendered[0].Output)

	_, err = engine.Run(filepath.Join(tempDir, "missing.mlgf"))
	assert.Error(t, err)
}

func TestEngine_Expand(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, Options{StrictBindings: true})

	out, diags, matchDiags := engine.Expand(`\and{X \set.in/ Y}{Z}`)
	assert.Equal(t, `\left ( X \in Y \right ) \wedge Z`, out)
	assert.Empty(t, diags)
	assert.Empty(t, matchDiags)

	_, diags, _ = engine.Expand(`\and{`)
	assert.NotEmpty(t, diags)
}

func TestResult(t *testing.T) {
	t.Parallel()
	var result Result
	result.Merge(Result{
		Issues:   []tt.Issue{{Filename: "b.mlgf", Start: tt.Position{Line: 1}}},
		Rendered: []tt.Rendered{{File: "b.mlgf", Line: 3}},
	})
	result.Merge(Result{
		Issues: []tt.Issue{
			{Filename: "a.mlgf", Start: tt.Position{Line: 2, Column: 5}, Severity: tt.SeverityError},
			{Filename: "a.mlgf", Start: tt.Position{Line: 2, Column: 1}},
		},
		Rendered: []tt.Rendered{{File: "a.mlgf", Line: 2}, {File: "b.mlgf", Line: 1}},
	})
	result.Sort()

	assert.Equal(t, "a.mlgf", result.Issues[0].Filename)
	assert.Equal(t, 1, result.Issues[0].Start.Column)
	assert.Equal(t, "b.mlgf", result.Issues[2].Filename)
	assert.Equal(t, []tt.Rendered{{File: "a.mlgf", Line: 2}, {File: "b.mlgf", Line: 1}, {File: "b.mlgf", Line: 3}}, result.Rendered)
	assert.True(t, result.HasErrors())
}
