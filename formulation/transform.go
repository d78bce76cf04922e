package formulation

import "fmt"

// ForEach calls fn on every direct child of n, in source order.
func ForEach(n Node, fn func(Node)) {
	switch v := n.(type) {
	case *Text:
	case *Group:
		for _, param := range v.Params {
			fn(param)
		}
	case *NamedGroup:
		for _, g := range v.Groups {
			fn(g)
		}
	case *SubSup:
		if v.Sub != nil {
			fn(v.Sub)
		}
		if v.Sup != nil {
			fn(v.Sup)
		}
	case *CommandPart:
		if v.Square != nil {
			fn(v.Square)
		}
		if v.SubSup != nil {
			fn(v.SubSup)
		}
		for _, g := range v.Groups {
			fn(g)
		}
		if v.Paren != nil {
			fn(v.Paren)
		}
		for _, ng := range v.NamedGroups {
			fn(ng)
		}
	case *Command:
		for _, part := range v.Parts {
			fn(part)
		}
	case *Expression:
		for _, child := range v.Children {
			fn(child)
		}
	case *Is, *ColonEquals, *ColonColonEquals:
		lhs, rhs, _ := SpecialParts(v)
		for _, item := range lhs.Items {
			fn(item)
		}
		for _, item := range rhs.Items {
			fn(item)
		}
	case *Operator:
		for _, c := range []Node{v.Left, v.Head, v.Right} {
			if c != nil {
				fn(c)
			}
		}
	default:
		panic(fmt.Sprintf("formulation: cannot traverse node of type %T", n))
	}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	ForEach(n, func(child Node) {
		Walk(child, fn)
	})
}

// Transform rebuilds n bottom-up: children are transformed first, then fn is
// applied to the rebuilt node. The input tree is left untouched. fn must
// return a node that fits the slot it came from; a group slot, for example,
// must still hold a *Group.
func Transform(n Node, fn func(Node) Node) Node {
	if n == nil {
		return nil
	}

	var rebuilt Node
	switch v := n.(type) {
	case *Text:
		cp := *v
		rebuilt = &cp
	case *Group:
		out := &Group{Kind: v.Kind, IsVarArg: v.IsVarArg, Pos: v.Pos}
		for _, param := range v.Params {
			out.Params = append(out.Params, transformExpression(param, fn))
		}
		rebuilt = out
	case *NamedGroup:
		ng := &NamedGroup{Name: v.Name, Pos: v.Pos}
		for _, g := range v.Groups {
			ng.Groups = append(ng.Groups, transformGroup(g, fn))
		}
		rebuilt = ng
	case *SubSup:
		rebuilt = transformSubSup(v, fn)
	case *CommandPart:
		rebuilt = transformCommandPart(v, fn)
	case *Command:
		cmd := &Command{IsInfix: v.IsInfix, Pos: v.Pos}
		for _, part := range v.Parts {
			cmd.Parts = append(cmd.Parts, as[*CommandPart](Transform(part, fn)))
		}
		rebuilt = cmd
	case *Expression:
		expr := &Expression{Pos: v.Pos}
		for _, child := range v.Children {
			expr.Children = append(expr.Children, Transform(child, fn))
		}
		rebuilt = expr
	case *Is:
		rebuilt = &Is{Lhs: transformParams(v.Lhs, fn), Rhs: transformParams(v.Rhs, fn), Pos: v.Pos}
	case *ColonEquals:
		rebuilt = &ColonEquals{Lhs: transformParams(v.Lhs, fn), Rhs: transformParams(v.Rhs, fn), Pos: v.Pos}
	case *ColonColonEquals:
		rebuilt = &ColonColonEquals{Lhs: transformParams(v.Lhs, fn), Rhs: transformParams(v.Rhs, fn), Pos: v.Pos}
	case *Operator:
		rebuilt = &Operator{
			Left:  Transform(v.Left, fn),
			Head:  Transform(v.Head, fn),
			Right: Transform(v.Right, fn),
		}
	default:
		panic(fmt.Sprintf("formulation: cannot transform node of type %T", n))
	}
	return fn(rebuilt)
}

func transformGroup(g *Group, fn func(Node) Node) *Group {
	if g == nil {
		return nil
	}
	return as[*Group](Transform(g, fn))
}

func transformSubSup(ss *SubSup, fn func(Node) Node) *SubSup {
	return &SubSup{Sub: transformGroup(ss.Sub, fn), Sup: transformGroup(ss.Sup, fn), Pos: ss.Pos}
}

func transformCommandPart(part *CommandPart, fn func(Node) Node) *CommandPart {
	out := &CommandPart{
		Name:       part.Name,
		Square:     transformGroup(part.Square, fn),
		Paren:      transformGroup(part.Paren, fn),
		IsOperator: part.IsOperator,
		Pos:        part.Pos,
	}
	if part.SubSup != nil {
		out.SubSup = as[*SubSup](Transform(part.SubSup, fn))
	}
	for _, g := range part.Groups {
		out.Groups = append(out.Groups, transformGroup(g, fn))
	}
	for _, ng := range part.NamedGroups {
		out.NamedGroups = append(out.NamedGroups, as[*NamedGroup](Transform(ng, fn)))
	}
	return out
}

func transformParams(params Parameters, fn func(Node) Node) Parameters {
	var out Parameters
	for _, item := range params.Items {
		out.Items = append(out.Items, transformExpression(item, fn))
	}
	return out
}

// transformExpression keeps expression slots typed: a non-expression result
// is wrapped in a single-child expression.
func transformExpression(e *Expression, fn func(Node) Node) *Expression {
	result := Transform(e, fn)
	if expr, ok := result.(*Expression); ok {
		return expr
	}
	return &Expression{Children: []Node{result}, Pos: result.Position()}
}

func as[T Node](n Node) T {
	v, ok := n.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("formulation: transform produced %T where %T was required", n, zero))
	}
	return v
}

// RenameVariables returns a copy of n with every identifier found in names
// replaced by its new name.
func RenameVariables(n Node, names map[string]string) Node {
	return Transform(n, func(node Node) Node {
		t, ok := node.(*Text)
		if !ok || t.Kind != TextIdentifier {
			return node
		}
		if renamed, ok := names[t.Value]; ok {
			cp := *t
			cp.Value = renamed
			return &cp
		}
		return node
	})
}
