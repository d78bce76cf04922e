package formulation

// resolveSpecial looks for `is`, `:=` or `::=` among the top-level children
// of expr. The first occurrence splits the expression into left and right
// Parameters; every later occurrence is reported, and then resolved as a
// nested form inside the right-hand side it ends up in.
func resolveSpecial(expr *Expression) (*Expression, []Diagnostic) {
	first := -1
	var diags []Diagnostic
	for i, child := range expr.Children {
		t, ok := child.(*Text)
		if !ok || !t.IsSpecial() {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		prev := expr.Children[first].(*Text)
		diags = append(diags, newDiagnostic(t.Pos,
			"%q cannot be used here since %q already appears at %s", t.Value, prev.Value, prev.Pos))
	}
	if first < 0 {
		return expr, nil
	}

	head := expr.Children[first].(*Text)
	lhs, d := splitParameters(expr.Children[:first], head, "before")
	diags = append(diags, d...)
	rhs, d := splitParameters(expr.Children[first+1:], head, "after")
	diags = append(diags, d...)

	var node Node
	switch head.Kind {
	case TextIs:
		node = &Is{Lhs: lhs, Rhs: rhs, Pos: head.Pos}
	case TextColonEquals:
		node = &ColonEquals{Lhs: lhs, Rhs: rhs, Pos: head.Pos}
	default:
		node = &ColonColonEquals{Lhs: lhs, Rhs: rhs, Pos: head.Pos}
	}
	return &Expression{Children: []Node{node}, Pos: expr.Pos}, diags
}

// splitParameters turns each comma separated run of children into one
// Parameters item, resolving special forms nested inside the item.
func splitParameters(children []Node, head *Text, side string) (Parameters, []Diagnostic) {
	var params Parameters
	if len(children) == 0 {
		return params, []Diagnostic{newDiagnostic(head.Pos, "expected parameters %s %q", side, head.Value)}
	}

	var diags []Diagnostic
	var run []Node
	flush := func(at Position) {
		if len(run) == 0 {
			diags = append(diags, newDiagnostic(at, "empty parameter %s %q", side, head.Value))
			return
		}
		item, d := resolveSpecial(&Expression{Children: run, Pos: run[0].Position()})
		diags = append(diags, d...)
		params.Items = append(params.Items, item)
		run = nil
	}

	for _, child := range children {
		if t, ok := child.(*Text); ok && t.Kind == TextComma {
			flush(t.Pos)
			continue
		}
		run = append(run, child)
	}
	flush(head.Pos)
	return params, diags
}
