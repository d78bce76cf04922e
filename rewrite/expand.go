package rewrite

import (
	"fmt"
	"strings"

	"github.com/mathlingua/mlg/formulation"
	"github.com/mathlingua/mlg/rewrite/template"
)

// Expander renders formulation trees through the templates of a rule table.
type Expander struct {
	table   *Table
	matcher Matcher
}

func NewExpander(table *Table, matcher Matcher) *Expander {
	return &Expander{table: table, matcher: matcher}
}

// Expand renders n. Every command and operator with a matching rule is
// replaced by its template; anything else is reprinted with its children
// expanded. The diagnostics explain why candidate rules did not match.
func (e *Expander) Expand(n formulation.Node) (string, []string) {
	x := &expansion{Expander: e}
	return x.expand(n), x.diagnostics
}

// expansion holds the diagnostics of one Expand call.
type expansion struct {
	*Expander
	diagnostics []string
}

func (x *expansion) expand(n formulation.Node) string {
	return formulation.PrintWith(n, x.intercept)
}

// verbatim prints n itself with the default printer while its children are
// still expanded.
func (x *expansion) verbatim(n formulation.Node) string {
	return formulation.PrintWith(n, func(child formulation.Node) (string, bool) {
		if child == n {
			return "", false
		}
		return x.intercept(child)
	})
}

func (x *expansion) intercept(n formulation.Node) (string, bool) {
	switch v := n.(type) {
	case *formulation.Expression:
		switch tree := formulation.OperatorTree(v.Children).(type) {
		case nil:
			return "", true
		case *formulation.Expression:
			return "", false
		default:
			return x.expand(tree), true
		}
	case *formulation.Command:
		return x.rewrite(&formulation.Operator{Head: v}), true
	case *formulation.Operator:
		return x.rewrite(v), true
	}
	return "", false
}

func (x *expansion) rewrite(op *formulation.Operator) string {
	sig, ok := formulation.Signature(op)
	if !ok {
		return x.fallback(op)
	}

	var failures []string
	for _, rule := range x.table.Lookup(sig) {
		result := x.matcher.Match(rule.Pattern, op)
		if result.Matches {
			return x.render(rule.Template, result.Bindings)
		}
		for _, d := range result.Diagnostics {
			failures = append(failures, fmt.Sprintf("%s: %s", rule.Name, d))
		}
	}
	x.diagnostics = append(x.diagnostics, failures...)
	return x.fallback(op)
}

// fallback reprints an unmatched operator. The head is printed as written,
// not looked up again on its own.
func (x *expansion) fallback(op *formulation.Operator) string {
	if op.Left == nil && op.Right == nil {
		return x.verbatim(op.Head)
	}

	head := x.verbatim(op.Head)
	glue := " "
	if t, ok := op.Head.(*formulation.Text); ok && (t.Value == "_" || t.Value == "^") {
		glue = ""
	}

	var parts []string
	if op.Left != nil {
		parts = append(parts, x.expand(op.Left))
	}
	parts = append(parts, head)
	if op.Right != nil {
		parts = append(parts, x.expand(op.Right))
	}
	return strings.Join(parts, glue)
}

func (x *expansion) render(tmpl *template.Template, bindings map[string][]formulation.Node) string {
	var sb strings.Builder
	for _, seg := range tmpl.Segments {
		switch s := seg.(type) {
		case template.Literal:
			sb.WriteString(s.Text)
		case template.Capture:
			values := bindings[s.Name]
			items := make([]string, len(values))
			for i, v := range values {
				items[i] = x.item(v, s.Mode)
			}
			sb.WriteString(strings.Join(items, " "))
		case template.CaptureGroup:
			sb.WriteString(x.group(s, bindings[s.Name]))
		}
	}
	return sb.String()
}

// group renders a capture group. A single bound value that is a sequence
// `a ... b` is spliced with the group's separator around the `...`.
func (x *expansion) group(g template.CaptureGroup, values []formulation.Node) string {
	var items []string
	if len(values) == 1 {
		if chain, ok := formulation.Chain(formulation.Ungroup(values[0])); ok {
			if chain.Left != nil {
				items = append(items, x.item(chain.Left, g.Mode))
			}
			items = append(items, formulation.ChainOperator)
			if chain.Right != nil {
				items = append(items, x.item(chain.Right, g.Mode))
			}
			return g.Prefix + strings.Join(items, g.Separator) + g.Suffix
		}
	}

	for _, v := range values {
		items = append(items, x.item(v, g.Mode))
	}
	return g.Prefix + strings.Join(items, g.Separator) + g.Suffix
}

// item expands one bound value and parenthesizes it as mode asks. A braced
// value is substituted without its braces.
func (x *expansion) item(v formulation.Node, mode template.Mode) string {
	v = formulation.Ungroup(v)
	s := x.expand(v)
	switch mode {
	case template.ModeForce:
		return wrap(s)
	case template.ModeComplex:
		if formulation.IsComplex(v) {
			return wrap(s)
		}
	}
	return s
}

func wrap(s string) string {
	return `\left ( ` + s + ` \right )`
}
