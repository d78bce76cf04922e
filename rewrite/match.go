package rewrite

import (
	"fmt"
	"strings"

	"github.com/mathlingua/mlg/formulation"
)

// MatchResult is the outcome of matching a value against a pattern.
// Bindings are only meaningful when Matches is true.
type MatchResult struct {
	Matches     bool
	Bindings    map[string][]formulation.Node
	Diagnostics []string
}

// Matcher matches operator-shaped values against operator-shaped patterns.
type Matcher struct {
	// StrictBindings makes a name captured twice require values that print
	// the same. Otherwise the later capture wins.
	StrictBindings bool
}

// Match matches value against pattern with the default options.
func Match(pattern, value *formulation.Operator) MatchResult {
	return Matcher{}.Match(pattern, value)
}

// Match compares value against pattern. Every mismatch found is reported;
// matching does not stop at the first one.
func (m Matcher) Match(pattern, value *formulation.Operator) MatchResult {
	o := matchOperator(pattern, value)

	result := MatchResult{
		Matches:     o.ok,
		Bindings:    make(map[string][]formulation.Node),
		Diagnostics: o.diagnostics,
	}
	for _, b := range o.bindings {
		if prev, exists := result.Bindings[b.name]; exists && m.StrictBindings && !samePrint(prev, b.values) {
			result.Matches = false
			result.Diagnostics = append(result.Diagnostics, fmt.Sprintf(
				"'%s' is bound to both '%s' and '%s'", b.name, printAll(prev), printAll(b.values)))
		}
		result.Bindings[b.name] = b.values
	}
	return result
}

type binding struct {
	name   string
	values []formulation.Node
}

// outcome is the partial result of matching one component. Outcomes are
// merged upward so no collector is shared between calls.
type outcome struct {
	ok          bool
	bindings    []binding
	diagnostics []string
}

func success() outcome {
	return outcome{ok: true}
}

func failure(format string, args ...any) outcome {
	return outcome{diagnostics: []string{fmt.Sprintf(format, args...)}}
}

func bind(name string, values ...formulation.Node) outcome {
	return outcome{ok: true, bindings: []binding{{name: name, values: values}}}
}

func (o *outcome) merge(other outcome) {
	o.ok = o.ok && other.ok
	o.bindings = append(o.bindings, other.bindings...)
	o.diagnostics = append(o.diagnostics, other.diagnostics...)
}

func matchOperator(pattern, value *formulation.Operator) outcome {
	o := success()
	o.merge(matchOperand("left", pattern.Left, value.Left))
	o.merge(matchOperand("right", pattern.Right, value.Right))
	o.merge(matchHead(pattern.Head, value.Head))
	return o
}

func matchOperand(side string, pattern, value formulation.Node) outcome {
	switch {
	case pattern == nil && value == nil:
		return success()
	case pattern == nil:
		return failure("unexpected %s operand '%s'", side, formulation.Print(value))
	case value == nil:
		return failure("expected a %s operand for '%s'", side, formulation.Print(pattern))
	}

	id, ok := formulation.Identifier(pattern)
	if !ok {
		return failure("the %s operand '%s' of a pattern must be an identifier", side, formulation.Print(pattern))
	}
	if id.IsVarArg {
		return failure("the %s operand '%s' of a pattern cannot be variadic", side, id.Value)
	}
	return bind(id.Value, value)
}

func matchHead(pattern, value formulation.Node) outcome {
	switch p := pattern.(type) {
	case *formulation.Text:
		v, ok := value.(*formulation.Text)
		if !ok || v.Value != p.Value {
			return failure("expected operator '%s' but found '%s'", p.Value, formulation.Print(value))
		}
		return success()
	case *formulation.Command:
		v, ok := value.(*formulation.Command)
		if !ok {
			return failure("expected command '%s' but found '%s'", formulation.Print(p), formulation.Print(value))
		}
		return matchCommand(p, v)
	default:
		panic(fmt.Sprintf("rewrite: pattern head must be a command or text, got %T", pattern))
	}
}

func matchCommand(pattern, value *formulation.Command) outcome {
	owner := formulation.Print(value)
	if pattern.IsInfix != value.IsInfix {
		if pattern.IsInfix {
			return failure("expected '%s' to be written infix as '%s'", owner, formulation.Print(pattern))
		}
		return failure("'%s' is written infix but '%s' is not", owner, formulation.Print(pattern))
	}
	if len(pattern.Parts) != len(value.Parts) {
		return failure("expected %d name parts but found %d in '%s'", len(pattern.Parts), len(value.Parts), owner)
	}

	o := success()
	for i := range pattern.Parts {
		o.merge(matchPart(pattern.Parts[i], value.Parts[i], owner))
	}
	return o
}

func matchPart(pattern, value *formulation.CommandPart, owner string) outcome {
	if pattern.Name != value.Name || pattern.IsOperator != value.IsOperator {
		return failure("expected '%s' but found '%s' in '%s'", pattern.Name, value.Name, owner)
	}

	o := success()
	o.merge(matchOptionalGroup("[]", pattern.Square, value.Square, owner))

	var pSub, pSup, vSub, vSup *formulation.Group
	if pattern.SubSup != nil {
		pSub, pSup = pattern.SubSup.Sub, pattern.SubSup.Sup
	}
	if value.SubSup != nil {
		vSub, vSup = value.SubSup.Sub, value.SubSup.Sup
	}
	o.merge(matchOptionalGroup("_", pSub, vSub, owner))
	o.merge(matchOptionalGroup("^", pSup, vSup, owner))

	o.merge(matchGroups(pattern.Groups, value.Groups, owner))
	o.merge(matchOptionalGroup("()", pattern.Paren, value.Paren, owner))

	if len(pattern.NamedGroups) != len(value.NamedGroups) {
		o.merge(failure("expected %d named groups but found %d in '%s'",
			len(pattern.NamedGroups), len(value.NamedGroups), owner))
		return o
	}
	for i, png := range pattern.NamedGroups {
		vng := value.NamedGroups[i]
		if png.Name != vng.Name {
			o.merge(failure("expected :%s but found :%s in '%s'", png.Name, vng.Name, owner))
			continue
		}
		o.merge(matchGroups(png.Groups, vng.Groups, owner))
	}
	return o
}

func matchOptionalGroup(what string, pattern, value *formulation.Group, owner string) outcome {
	switch {
	case pattern == nil && value == nil:
		return success()
	case pattern == nil:
		return failure("unexpected %s group '%s' in '%s'", what, formulation.Print(value), owner)
	case value == nil:
		return failure("expected a %s group in '%s'", what, owner)
	}
	return matchGroup(pattern, value, owner)
}

func matchGroup(pattern, value *formulation.Group, owner string) outcome {
	if pattern.Kind != value.Kind {
		return failure("expected a %s group but found '%s' in '%s'", pattern.Kind, formulation.Print(value), owner)
	}
	return matchParams(pattern.Params, value.Params, owner)
}

func matchParams(pattern, value []*formulation.Expression, owner string) outcome {
	ids := make([]*formulation.Text, len(pattern))
	o := success()
	for i, param := range pattern {
		id, ok := formulation.Identifier(param)
		if !ok {
			o.merge(failure("pattern parameter '%s' must be an identifier", formulation.Print(param)))
			continue
		}
		if id.IsVarArg && i != len(pattern)-1 {
			o.merge(failure("only the last parameter can be variadic, not '%s'", id.Value))
		}
		ids[i] = id
	}
	if !o.ok {
		return o
	}

	fixed := len(pattern)
	variadic := fixed > 0 && ids[fixed-1].IsVarArg
	if variadic {
		fixed--
		if len(value) < fixed {
			return failure("expected at least %d %s but found %d in '%s'", fixed, plural(fixed, "argument"), len(value), owner)
		}
	} else if len(value) != fixed {
		return failure("expected %d %s but found %d in '%s'", fixed, plural(fixed, "argument"), len(value), owner)
	}

	for i := 0; i < fixed; i++ {
		o.merge(matchParam(ids[i], value[i]))
	}
	if variadic {
		rest := make([]formulation.Node, 0, len(value)-fixed)
		for _, v := range value[fixed:] {
			rest = append(rest, v)
		}
		o.merge(bind(ids[fixed].Value, rest...))
	}
	return o
}

// matchParam binds a single parameter. A sequence `a ... b` stands for any
// number of values and cannot be captured by a single parameter.
func matchParam(id *formulation.Text, value *formulation.Expression) outcome {
	if _, ok := formulation.Chain(value); ok {
		return failure("'%s' cannot be captured by the single parameter '%s'", formulation.Print(value), id.Value)
	}
	return bind(id.Value, value)
}

// matchGroups matches a run of curly groups. A last group written `{x}...`
// captures the single parameter of every remaining value group.
func matchGroups(pattern, value []*formulation.Group, owner string) outcome {
	o := success()
	for i, g := range pattern {
		if g.IsVarArg && i != len(pattern)-1 {
			o.merge(failure("only the last group can be variadic, not '%s'", formulation.Print(g)))
		}
	}
	if !o.ok {
		return o
	}

	if len(pattern) == 0 || !pattern[len(pattern)-1].IsVarArg {
		if len(pattern) != len(value) {
			return failure("expected %d %s but found %d in '%s'", len(pattern), plural(len(pattern), "group"), len(value), owner)
		}
		for i := range pattern {
			o.merge(matchGroup(pattern[i], value[i], owner))
		}
		return o
	}

	fixed := len(pattern) - 1
	if len(value) < fixed {
		return failure("expected at least %d %s but found %d in '%s'", fixed, plural(fixed, "group"), len(value), owner)
	}
	for i := 0; i < fixed; i++ {
		o.merge(matchGroup(pattern[i], value[i], owner))
	}

	last := pattern[fixed]
	if len(last.Params) != 1 {
		o.merge(failure("the variadic group '%s' must have exactly one parameter", formulation.Print(last)))
		return o
	}
	id, ok := formulation.Identifier(last.Params[0])
	if !ok {
		o.merge(failure("pattern parameter '%s' must be an identifier", formulation.Print(last.Params[0])))
		return o
	}
	if id.IsVarArg {
		o.merge(failure("the parameter '%s' of a variadic group cannot itself be variadic", id.Value))
		return o
	}

	values := make([]formulation.Node, 0, len(value)-fixed)
	for _, g := range value[fixed:] {
		if g.Kind != last.Kind {
			o.merge(failure("expected a %s group but found '%s' in '%s'", last.Kind, formulation.Print(g), owner))
			continue
		}
		if len(g.Params) != 1 {
			o.merge(failure("expected 1 argument but found %d in '%s'", len(g.Params), formulation.Print(g)))
			continue
		}
		values = append(values, g.Params[0])
	}
	o.merge(bind(id.Value, values...))
	return o
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func samePrint(a, b []formulation.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if formulation.Print(a[i]) != formulation.Print(b[i]) {
			return false
		}
	}
	return true
}

func printAll(nodes []formulation.Node) string {
	printed := make([]string, len(nodes))
	for i, n := range nodes {
		printed[i] = formulation.Print(n)
	}
	return strings.Join(printed, ", ")
}
