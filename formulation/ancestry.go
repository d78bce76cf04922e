package formulation

// Ancestry is a parent index for one tree, built after parsing so that the
// nodes themselves carry no back-pointers. It is keyed by node identity and
// must be rebuilt for a transformed tree.
type Ancestry struct {
	root    Node
	parents map[Node]Node
}

// BuildAncestry indexes every node reachable from root.
func BuildAncestry(root Node) *Ancestry {
	a := &Ancestry{root: root, parents: make(map[Node]Node)}
	Walk(root, func(n Node) bool {
		ForEach(n, func(child Node) {
			a.parents[child] = n
		})
		return true
	})
	return a
}

// Root returns the node the index was built from.
func (a *Ancestry) Root() Node {
	return a.root
}

// Parent returns the parent of n. The root and unknown nodes have none.
func (a *Ancestry) Parent(n Node) (Node, bool) {
	p, ok := a.parents[n]
	return p, ok
}

// Path returns the nodes from the root down to target, both included, or nil
// when target is not part of the tree.
func (a *Ancestry) Path(target Node) []Node {
	if target == a.root {
		return []Node{a.root}
	}
	if _, ok := a.parents[target]; !ok {
		return nil
	}

	var reversed []Node
	for n := target; ; {
		reversed = append(reversed, n)
		p, ok := a.parents[n]
		if !ok {
			break
		}
		n = p
	}

	path := make([]Node, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path
}

// Enclosing returns the nearest strict ancestor of n with the given type.
func (a *Ancestry) Enclosing(n Node, t NodeType) (Node, bool) {
	for p, ok := a.parents[n]; ok; p, ok = a.parents[p] {
		if p.Type() == t {
			return p, true
		}
	}
	return nil, false
}
