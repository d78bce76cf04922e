package formulation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	curlyRunRegex   = regexp.MustCompile(`(?:\{\})+\{\}\.\.\.`)
	placeholderMark = regexp.MustCompile(`\?+`)
)

// Signature returns the lookup key of a command or of an operator's head.
// Only names take part in it: the dotted part names, the names of named
// groups and the infix marker. Arguments are erased, so `\f(x)` and
// `\f(a, b)` share the signature `\f`. It reports false for nodes that have
// no signature, such as identifiers.
func Signature(n Node) (string, bool) {
	switch v := n.(type) {
	case *Command:
		return commandSignature(v), true
	case *Text:
		if v.Kind == TextOperator {
			return v.Value, true
		}
	case *Operator:
		switch head := v.Head.(type) {
		case *Command:
			return commandSignature(head), true
		case *Text:
			return head.Value, true
		default:
			panic(fmt.Sprintf("formulation: operator head must be a command or text, got %T", v.Head))
		}
	case *Expression:
		if op, ok := AsOperator(v); ok {
			return Signature(op)
		}
	}
	return "", false
}

func commandSignature(cmd *Command) string {
	parts := make([]string, 0, len(cmd.Parts))
	for _, part := range cmd.Parts {
		var sb strings.Builder
		sb.WriteString(part.Name)
		for _, ng := range part.NamedGroups {
			sb.WriteString(":")
			sb.WriteString(ng.Name)
		}
		parts = append(parts, sb.String())
	}
	sig := `\` + strings.Join(parts, ".")
	if cmd.IsInfix {
		sig += "/"
	}
	return sig
}

// Shape is the arity-aware key of a command: every group is spelled as its
// brackets with one comma per extra parameter, and variadic markers are
// kept. The result is flattened so that a run of `{}` groups ending in a
// variadic `{}...` reads `{}...`, and stray `?` markers are dropped. Two
// commands that differ only in parameter names have the same shape.
func Shape(cmd *Command) string {
	parts := make([]string, 0, len(cmd.Parts))
	for _, part := range cmd.Parts {
		parts = append(parts, partShape(part))
	}
	shape := `\` + strings.Join(parts, ".")
	if cmd.IsInfix {
		shape += "/"
	}
	return flattenShape(shape)
}

func partShape(part *CommandPart) string {
	if part.IsOperator {
		return part.Name
	}
	var sb strings.Builder
	sb.WriteString(part.Name)
	if part.Square != nil {
		sb.WriteString(groupShape(part.Square))
	}
	if part.SubSup != nil {
		if part.SubSup.Sub != nil {
			sb.WriteString("_" + groupShape(part.SubSup.Sub))
		}
		if part.SubSup.Sup != nil {
			sb.WriteString("^" + groupShape(part.SubSup.Sup))
		}
	}
	for _, g := range part.Groups {
		sb.WriteString(groupShape(g))
	}
	if part.Paren != nil {
		sb.WriteString(groupShape(part.Paren))
	}
	for _, ng := range part.NamedGroups {
		sb.WriteString(":" + ng.Name)
		for _, g := range ng.Groups {
			sb.WriteString(groupShape(g))
		}
	}
	return sb.String()
}

func groupShape(g *Group) string {
	open, close := g.Kind.Brackets()
	var sb strings.Builder
	sb.WriteString(open)
	if len(g.Params) > 1 {
		sb.WriteString(strings.Repeat(",", len(g.Params)-1))
	}
	if n := len(g.Params); n > 0 {
		if id, ok := Identifier(g.Params[n-1]); ok && id.IsVarArg {
			sb.WriteString("...")
		}
	}
	sb.WriteString(close)
	if g.IsVarArg {
		sb.WriteString("...")
	}
	return sb.String()
}

func flattenShape(shape string) string {
	shape = curlyRunRegex.ReplaceAllString(shape, "{}...")
	return placeholderMark.ReplaceAllString(shape, "")
}
