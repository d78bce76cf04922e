package formulation

import (
	"fmt"
	"io"
	"strconv"
)

// WriteDot writes the tree rooted at n as a GraphViz digraph. Nodes are
// numbered in pre-order.
func WriteDot(w io.Writer, n Node) error {
	d := dotWriter{w: w}
	d.printf("digraph formulation {\n")
	d.printf("\tnode [shape=box, fontname=\"monospace\"];\n")
	if n != nil {
		d.node(n)
	}
	d.printf("}\n")
	return d.err
}

type dotWriter struct {
	w    io.Writer
	next int
	err  error
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dotWriter) node(n Node) int {
	id := d.next
	d.next++
	d.printf("\tn%d [label=%s];\n", id, strconv.Quote(dotLabel(n)))
	ForEach(n, func(child Node) {
		childID := d.node(child)
		d.printf("\tn%d -> n%d;\n", id, childID)
	})
	return id
}

func dotLabel(n Node) string {
	switch v := n.(type) {
	case *Text:
		if v.IsVarArg {
			return v.Value + "..."
		}
		return v.Value
	case *Group:
		label := v.Kind.String()
		if v.IsVarArg {
			label += "..."
		}
		return label
	case *NamedGroup:
		return ":" + v.Name
	case *SubSup:
		return "_^"
	case *CommandPart:
		return "." + v.Name
	case *Command:
		sig, _ := Signature(v)
		return sig
	case *Operator:
		sig, _ := Signature(v)
		return "Operator " + sig
	case *Is:
		return "is"
	case *ColonEquals:
		return ":="
	case *ColonColonEquals:
		return "::="
	default:
		return n.Type().String()
	}
}
