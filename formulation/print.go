package formulation

import (
	"fmt"
	"strings"
)

// Interceptor lets a caller take over printing of individual nodes. It
// returns false to let the default printer handle the node; the default
// printer calls the interceptor again for every child it prints.
type Interceptor func(n Node) (string, bool)

// Print renders a node back to formulation code with canonical spacing.
func Print(n Node) string {
	return PrintWith(n, nil)
}

// PrintWith renders a node, consulting hook before each node is printed.
func PrintWith(n Node, hook Interceptor) string {
	p := printer{hook: hook}
	return p.print(n)
}

type printer struct {
	hook Interceptor
}

func (p printer) print(n Node) string {
	if n == nil {
		return ""
	}
	if p.hook != nil {
		if s, ok := p.hook(n); ok {
			return s
		}
	}

	switch v := n.(type) {
	case *Text:
		if v.IsVarArg {
			return v.Value + "..."
		}
		return v.Value
	case *Group:
		return p.group(v)
	case *NamedGroup:
		var sb strings.Builder
		sb.WriteString(":")
		sb.WriteString(v.Name)
		for _, g := range v.Groups {
			sb.WriteString(p.print(g))
		}
		return sb.String()
	case *SubSup:
		var sb strings.Builder
		if v.Sub != nil {
			sb.WriteString("_")
			sb.WriteString(p.script(v.Sub))
		}
		if v.Sup != nil {
			sb.WriteString("^")
			sb.WriteString(p.script(v.Sup))
		}
		return sb.String()
	case *CommandPart:
		return p.commandPart(v)
	case *Command:
		parts := make([]string, 0, len(v.Parts))
		for _, part := range v.Parts {
			parts = append(parts, p.print(part))
		}
		s := `\` + strings.Join(parts, ".")
		if v.IsInfix {
			s += "/"
		}
		return s
	case *Expression:
		return p.sequence(v.Children)
	case *Is:
		return p.special(v.Lhs, "is", v.Rhs)
	case *ColonEquals:
		return p.special(v.Lhs, ":=", v.Rhs)
	case *ColonColonEquals:
		return p.special(v.Lhs, "::=", v.Rhs)
	case *Operator:
		return p.operator(v)
	default:
		panic(fmt.Sprintf("formulation: cannot print node of type %T", n))
	}
}

func (p printer) group(g *Group) string {
	open, close := g.Kind.Brackets()
	params := make([]string, 0, len(g.Params))
	for _, param := range g.Params {
		params = append(params, p.print(param))
	}
	s := open + strings.Join(params, ", ") + close
	if g.IsVarArg {
		s += "..."
	}
	return s
}

// script prints a subscript or superscript, using the `_a` sugar for a
// curly group that holds a single plain identifier.
func (p printer) script(g *Group) string {
	if g.Kind == GroupCurly && !g.IsVarArg && len(g.Params) == 1 {
		if id, ok := Identifier(g.Params[0]); ok && !id.IsVarArg && len(g.Params[0].Children) == 1 {
			return p.print(id)
		}
	}
	return p.print(g)
}

func (p printer) commandPart(part *CommandPart) string {
	if part.IsOperator {
		return part.Name
	}
	var sb strings.Builder
	sb.WriteString(part.Name)
	if part.Square != nil {
		sb.WriteString(p.print(part.Square))
	}
	if part.SubSup != nil {
		sb.WriteString(p.print(part.SubSup))
	}
	for _, g := range part.Groups {
		sb.WriteString(p.print(g))
	}
	if part.Paren != nil {
		sb.WriteString(p.print(part.Paren))
	}
	for _, ng := range part.NamedGroups {
		sb.WriteString(p.print(ng))
	}
	return sb.String()
}

func (p printer) sequence(children []Node) string {
	var sb strings.Builder
	for i, child := range children {
		if i > 0 && !glued(children[i-1], child) {
			sb.WriteString(" ")
		}
		sb.WriteString(p.print(child))
	}
	return sb.String()
}

// glued reports whether two neighbouring nodes of an expression are printed
// without a space between them.
func glued(prev, next Node) bool {
	if t, ok := next.(*Text); ok && (t.Kind == TextComma || isScriptOperator(t)) {
		return true
	}
	if t, ok := prev.(*Text); ok && isScriptOperator(t) {
		return true
	}
	return false
}

func isScriptOperator(t *Text) bool {
	return t.Kind == TextOperator && (t.Value == "_" || t.Value == "^")
}

func (p printer) special(lhs Parameters, op string, rhs Parameters) string {
	return p.parameters(lhs) + " " + op + " " + p.parameters(rhs)
}

func (p printer) parameters(params Parameters) string {
	items := make([]string, 0, len(params.Items))
	for _, item := range params.Items {
		items = append(items, p.print(item))
	}
	return strings.Join(items, ", ")
}

func (p printer) operator(op *Operator) string {
	if t, ok := op.Head.(*Text); ok && isScriptOperator(t) {
		return p.print(op.Left) + p.print(op.Head) + p.print(op.Right)
	}
	parts := make([]string, 0, 3)
	for _, c := range []Node{op.Left, op.Head, op.Right} {
		if c != nil {
			parts = append(parts, p.print(c))
		}
	}
	return strings.Join(parts, " ")
}
