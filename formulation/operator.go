package formulation

// ChainOperator is the text of the sequence operator in `a ... b`.
const ChainOperator = "..."

// operator tiers, tightest first
const (
	tierNone = iota
	tierScript
	tierSymbol
	tierChain
	tierCommand
)

func operatorTier(n Node) int {
	switch v := n.(type) {
	case *Text:
		if v.Kind != TextOperator {
			return tierNone
		}
		switch v.Value {
		case "_", "^":
			return tierScript
		case ChainOperator:
			return tierChain
		default:
			return tierSymbol
		}
	case *Command:
		if v.IsInfix {
			return tierCommand
		}
	}
	return tierNone
}

// OperatorTree folds the juxtaposed children of an expression into Operator
// nodes. The loosest operator present splits first: infix commands, then
// `...`, then symbolic operators, then `_` and `^`. Within a tier the
// rightmost operator that follows an operand splits, so operators associate
// to the left; an operator with nothing before it is prefix and one with
// nothing after it is postfix. It returns nil for no children, the child
// itself for a single operand, and an *Expression when the children hold
// no operator at all. A braced operand such as `{x + y}` stays a *Group;
// see Ungroup.
func OperatorTree(children []Node) Node {
	if len(children) == 0 {
		return nil
	}

	if i := splitIndex(children); i >= 0 {
		return &Operator{
			Left:  operand(children[:i]),
			Head:  children[i],
			Right: operand(children[i+1:]),
		}
	}

	if len(children) == 1 {
		return children[0]
	}
	return &Expression{Children: children, Pos: children[0].Position()}
}

func splitIndex(children []Node) int {
	loosest := tierNone
	for _, child := range children {
		if t := operatorTier(child); t > loosest {
			loosest = t
		}
	}
	if loosest == tierNone {
		return -1
	}

	last := -1
	for i := len(children) - 1; i >= 0; i-- {
		if operatorTier(children[i]) != loosest {
			continue
		}
		if last < 0 {
			last = i
		}
		if i > 0 && operatorTier(children[i-1]) == tierNone {
			return i
		}
	}
	if operatorTier(children[0]) == loosest {
		return 0
	}
	return last
}

func operand(children []Node) Node {
	return OperatorTree(children)
}

// Ungroup returns the content of a curly group used for explicit grouping,
// `{x + y}`, and n itself for anything else.
func Ungroup(n Node) Node {
	if g, ok := n.(*Group); ok && g.Kind == GroupCurly && !g.IsVarArg && len(g.Params) == 1 {
		return g.Params[0]
	}
	return n
}

// AsOperator views n in operator shape. A bare command or operator becomes
// an Operator with no operands; an expression is folded with OperatorTree.
func AsOperator(n Node) (*Operator, bool) {
	switch v := n.(type) {
	case *Operator:
		return v, true
	case *Command:
		return &Operator{Head: v}, true
	case *Text:
		if v.Kind == TextOperator {
			return &Operator{Head: v}, true
		}
	case *Expression:
		tree := OperatorTree(v.Children)
		if tree == nil {
			return nil, false
		}
		if _, ok := tree.(*Expression); ok {
			return nil, false
		}
		return AsOperator(tree)
	}
	return nil, false
}

// Chain returns the operator when n is a sequence `a ... b`.
func Chain(n Node) (*Operator, bool) {
	op, ok := AsOperator(n)
	if !ok {
		return nil, false
	}
	if t, ok := op.Head.(*Text); ok && t.Kind == TextOperator && t.Value == ChainOperator {
		return op, true
	}
	return nil, false
}

// IsComplex decides whether a node needs parentheses when it is substituted
// into a template: never for a bare leaf or command, always for an operator
// with an operand, and for an expression when it has more than one child or
// its only child is complex.
func IsComplex(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *Text:
		return false
	case *Command:
		return false
	case *Operator:
		if v.Left != nil || v.Right != nil {
			return true
		}
		return IsComplex(v.Head)
	case *Expression:
		switch len(v.Children) {
		case 0:
			return false
		case 1:
			return IsComplex(v.Children[0])
		default:
			return true
		}
	default:
		return true
	}
}
