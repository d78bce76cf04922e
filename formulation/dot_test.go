package formulation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDot(t *testing.T) {
	t.Parallel()
	root, diags := Parse(`x + \f(y)`)
	require.Empty(t, diags)

	var buf strings.Builder
	require.NoError(t, WriteDot(&buf, root))

	expected := `digraph formulation {
	node [shape=box, fontname="monospace"];
	n0 [label="Expression"];
	n1 [label="x"];
	n0 -> n1;
	n2 [label="+"];
	n0 -> n2;
	n3 [label="\\f"];
	n4 [label=".f"];
	n5 [label="()"];
	n6 [label="Expression"];
	n7 [label="y"];
	n6 -> n7;
	n5 -> n6;
	n4 -> n5;
	n3 -> n4;
	n0 -> n3;
}
`
	assert.Equal(t, expected, buf.String())
}

func TestWriteDotOperatorTree(t *testing.T) {
	t.Parallel()
	root, _ := Parse(`a \set.in/ B`)

	var buf strings.Builder
	require.NoError(t, WriteDot(&buf, OperatorTree(root.Children)))
	assert.Contains(t, buf.String(), `n0 [label="Operator \\set.in/"];`)
	assert.Contains(t, buf.String(), `n0 -> n1;`)
}

func TestWriteDotNil(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	require.NoError(t, WriteDot(&buf, nil))
	assert.Equal(t, "digraph formulation {\n\tnode [shape=box, fontname=\"monospace\"];\n}\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteDotError(t *testing.T) {
	t.Parallel()
	root, _ := Parse(`x`)
	assert.EqualError(t, WriteDot(failingWriter{}, root), "closed")
}
