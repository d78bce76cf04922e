package formulation

// NodeType identifies the variant of a Node.
type NodeType int

const (
	NodeText NodeType = iota
	NodeGroup
	NodeNamedGroup
	NodeSubSup
	NodeCommandPart
	NodeCommand
	NodeExpression
	NodeIs
	NodeColonEquals
	NodeColonColonEquals
	NodeOperator
)

func (t NodeType) String() string {
	switch t {
	case NodeText:
		return "Text"
	case NodeGroup:
		return "Group"
	case NodeNamedGroup:
		return "NamedGroup"
	case NodeSubSup:
		return "SubSup"
	case NodeCommandPart:
		return "CommandPart"
	case NodeCommand:
		return "Command"
	case NodeExpression:
		return "Expression"
	case NodeIs:
		return "Is"
	case NodeColonEquals:
		return "ColonEquals"
	case NodeColonColonEquals:
		return "ColonColonEquals"
	case NodeOperator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// Node is the closed set of formulation tree nodes. Nodes are never mutated
// after parsing; rewriting builds new nodes with Transform.
type Node interface {
	Type() NodeType
	Position() Position
	String() string

	formulationNode()
}

var (
	_ Node = (*Text)(nil)
	_ Node = (*Group)(nil)
	_ Node = (*NamedGroup)(nil)
	_ Node = (*SubSup)(nil)
	_ Node = (*CommandPart)(nil)
	_ Node = (*Command)(nil)
	_ Node = (*Expression)(nil)
	_ Node = (*Is)(nil)
	_ Node = (*ColonEquals)(nil)
	_ Node = (*ColonColonEquals)(nil)
	_ Node = (*Operator)(nil)
)

// TextKind is the semantic subtype of a Text leaf.
type TextKind int

const (
	TextIdentifier TextKind = iota
	TextOperator
	TextComma
	TextIs
	TextColonEquals
	TextColonColonEquals
)

func (k TextKind) String() string {
	switch k {
	case TextIdentifier:
		return "identifier"
	case TextOperator:
		return "operator"
	case TextComma:
		return "comma"
	case TextIs:
		return "is"
	case TextColonEquals:
		return ":="
	case TextColonColonEquals:
		return "::="
	default:
		return "unknown"
	}
}

// Text is a token leaf: an identifier, an operator or a punctuation mark.
type Text struct {
	Kind     TextKind
	Value    string
	IsVarArg bool // written as `x...`
	Pos      Position
}

// IsSpecial reports whether the text is one of `is`, `:=` or `::=`.
func (t *Text) IsSpecial() bool {
	return t.Kind == TextIs || t.Kind == TextColonEquals || t.Kind == TextColonColonEquals
}

// GroupKind is the bracket style of a Group.
type GroupKind int

const (
	GroupParen GroupKind = iota
	GroupSquare
	GroupCurly
)

// Brackets returns the opening and closing bracket of the kind.
func (k GroupKind) Brackets() (string, string) {
	switch k {
	case GroupParen:
		return "(", ")"
	case GroupSquare:
		return "[", "]"
	default:
		return "{", "}"
	}
}

func (k GroupKind) String() string {
	open, close := k.Brackets()
	return open + close
}

// Group is a bracketed, comma separated list of expressions. A trailing
// `...` marks the whole group as variadic.
type Group struct {
	Kind     GroupKind
	Params   []*Expression
	IsVarArg bool
	Pos      Position
}

// NamedGroup is `:name{...}{...}`, a name followed by one or more curly groups.
type NamedGroup struct {
	Name   string
	Groups []*Group
	Pos    Position
}

// SubSup holds the optional subscript and superscript of a command part.
type SubSup struct {
	Sub *Group
	Sup *Group
	Pos Position
}

// CommandPart is one dotted segment of a command.
type CommandPart struct {
	Name        string
	Square      *Group
	SubSup      *SubSup
	Groups      []*Group // curly groups
	Paren       *Group
	NamedGroups []*NamedGroup

	// IsOperator is set for a trailing `.+` or `.^` part; such a part has a
	// name and nothing else.
	IsOperator bool
	Pos        Position
}

// Command is `\a.b.c` with its arguments. IsInfix records a `/` written
// directly after the last part, as in `X \set.in/ Y`.
type Command struct {
	Parts   []*CommandPart
	IsInfix bool
	Pos     Position
}

// Expression is a sequence of juxtaposed nodes.
type Expression struct {
	Children []Node
	Pos      Position
}

// Parameters is one side of a special form: each comma separated run of the
// original expression becomes one item.
type Parameters struct {
	Items []*Expression
}

// Is is `lhs is rhs`.
type Is struct {
	Lhs Parameters
	Rhs Parameters
	Pos Position
}

// ColonEquals is `lhs := rhs`.
type ColonEquals struct {
	Lhs Parameters
	Rhs Parameters
	Pos Position
}

// ColonColonEquals is `lhs ::= rhs`.
type ColonColonEquals struct {
	Lhs Parameters
	Rhs Parameters
	Pos Position
}

// Operator is the infix shape patterns are written in: an optional left
// operand, a head that is a *Command or an operator *Text, and an optional
// right operand. The parser never produces it; see OperatorTree.
type Operator struct {
	Left  Node
	Head  Node
	Right Node
}

func (*Text) Type() NodeType             { return NodeText }
func (*Group) Type() NodeType            { return NodeGroup }
func (*NamedGroup) Type() NodeType       { return NodeNamedGroup }
func (*SubSup) Type() NodeType           { return NodeSubSup }
func (*CommandPart) Type() NodeType      { return NodeCommandPart }
func (*Command) Type() NodeType          { return NodeCommand }
func (*Expression) Type() NodeType       { return NodeExpression }
func (*Is) Type() NodeType               { return NodeIs }
func (*ColonEquals) Type() NodeType      { return NodeColonEquals }
func (*ColonColonEquals) Type() NodeType { return NodeColonColonEquals }
func (*Operator) Type() NodeType         { return NodeOperator }

func (n *Text) Position() Position             { return n.Pos }
func (n *Group) Position() Position            { return n.Pos }
func (n *NamedGroup) Position() Position       { return n.Pos }
func (n *SubSup) Position() Position           { return n.Pos }
func (n *CommandPart) Position() Position      { return n.Pos }
func (n *Command) Position() Position          { return n.Pos }
func (n *Expression) Position() Position       { return n.Pos }
func (n *Is) Position() Position               { return n.Pos }
func (n *ColonEquals) Position() Position      { return n.Pos }
func (n *ColonColonEquals) Position() Position { return n.Pos }

// Position of an operator is the position of its first present component.
func (n *Operator) Position() Position {
	for _, c := range []Node{n.Left, n.Head, n.Right} {
		if c != nil {
			return c.Position()
		}
	}
	return NoPosition
}

func (n *Text) String() string             { return Print(n) }
func (n *Group) String() string            { return Print(n) }
func (n *NamedGroup) String() string       { return Print(n) }
func (n *SubSup) String() string           { return Print(n) }
func (n *CommandPart) String() string      { return Print(n) }
func (n *Command) String() string          { return Print(n) }
func (n *Expression) String() string       { return Print(n) }
func (n *Is) String() string               { return Print(n) }
func (n *ColonEquals) String() string      { return Print(n) }
func (n *ColonColonEquals) String() string { return Print(n) }
func (n *Operator) String() string         { return Print(n) }

func (*Text) formulationNode()             {}
func (*Group) formulationNode()            {}
func (*NamedGroup) formulationNode()       {}
func (*SubSup) formulationNode()           {}
func (*CommandPart) formulationNode()      {}
func (*Command) formulationNode()          {}
func (*Expression) formulationNode()       {}
func (*Is) formulationNode()               {}
func (*ColonEquals) formulationNode()      {}
func (*ColonColonEquals) formulationNode() {}
func (*Operator) formulationNode()         {}

// SpecialParts returns the two sides of an Is, ColonEquals or
// ColonColonEquals node.
func SpecialParts(n Node) (lhs, rhs Parameters, ok bool) {
	switch v := n.(type) {
	case *Is:
		return v.Lhs, v.Rhs, true
	case *ColonEquals:
		return v.Lhs, v.Rhs, true
	case *ColonColonEquals:
		return v.Lhs, v.Rhs, true
	default:
		return Parameters{}, Parameters{}, false
	}
}

// Identifier returns the name when n is a bare identifier, either a Text
// leaf or an expression holding exactly one.
func Identifier(n Node) (*Text, bool) {
	switch v := n.(type) {
	case *Text:
		if v.Kind == TextIdentifier {
			return v, true
		}
	case *Expression:
		if len(v.Children) == 1 {
			return Identifier(v.Children[0])
		}
	}
	return nil, false
}
