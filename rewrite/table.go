package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mathlingua/mlg/formulation"
	"github.com/mathlingua/mlg/rewrite/template"
)

// Rule is a compiled pattern/template pair.
type Rule struct {
	Name      string
	Pattern   *formulation.Operator
	Template  *template.Template
	Signature string

	// shape identifies patterns that can never be told apart inside one
	// signature bucket.
	shape string
}

// Table maps signatures to the rules defined for them, in definition order.
type Table struct {
	rules map[string][]*Rule
	count int
}

func NewTable() *Table {
	return &Table{rules: make(map[string][]*Rule)}
}

// Add compiles def and appends it to the candidates of its signature. An
// error means the rule is unusable and was not added; warnings describe
// problems with a rule that was added anyway.
func (t *Table) Add(def RuleDef) ([]string, error) {
	name := def.Name
	if name == "" {
		name = def.Pattern
	}

	root, diags := formulation.Parse(def.Pattern)
	if len(diags) > 0 {
		msgs := make([]string, len(diags))
		for i, d := range diags {
			msgs[i] = d.String()
		}
		return nil, fmt.Errorf("rule '%s': invalid pattern '%s': %s", name, def.Pattern, strings.Join(msgs, "; "))
	}

	pattern, ok := formulation.AsOperator(root)
	if !ok {
		return nil, fmt.Errorf("rule '%s': pattern '%s' is not a command or an operator", name, def.Pattern)
	}
	sig, ok := formulation.Signature(pattern)
	if !ok {
		return nil, fmt.Errorf("rule '%s': pattern '%s' has no signature", name, def.Pattern)
	}

	captures := captureNames(pattern)
	tmpl, warnings := template.Parse(def.Template, captures)
	for i, w := range warnings {
		warnings[i] = fmt.Sprintf("rule '%s': %s", name, w)
	}

	used := make(map[string]bool)
	for _, n := range tmpl.Names() {
		used[n] = true
	}
	for _, n := range sortedKeys(captures) {
		if !used[n] {
			warnings = append(warnings, fmt.Sprintf("rule '%s': '%s' is captured but never used in the template", name, n))
		}
	}

	rule := &Rule{
		Name:      name,
		Pattern:   pattern,
		Template:  tmpl,
		Signature: sig,
		shape:     patternShape(pattern),
	}
	for _, prev := range t.rules[sig] {
		if prev.shape == rule.shape {
			warnings = append(warnings, fmt.Sprintf(
				"rule '%s' has the same shape as rule '%s' and is never reached", name, prev.Name))
			break
		}
	}

	t.rules[sig] = append(t.rules[sig], rule)
	t.count++
	return warnings, nil
}

// Lookup returns the rules defined for sig, in the order they were added.
func (t *Table) Lookup(sig string) []*Rule {
	return t.rules[sig]
}

// Has reports whether any rule is defined for sig.
func (t *Table) Has(sig string) bool {
	return len(t.rules[sig]) > 0
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return t.count
}

// Signatures returns every signature with at least one rule, sorted.
func (t *Table) Signatures() []string {
	sigs := make([]string, 0, len(t.rules))
	for sig := range t.rules {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)
	return sigs
}

// captureNames collects every identifier in the pattern; each one is a
// capture.
func captureNames(pattern *formulation.Operator) map[string]bool {
	names := make(map[string]bool)
	formulation.Walk(pattern, func(n formulation.Node) bool {
		if t, ok := n.(*formulation.Text); ok && t.Kind == formulation.TextIdentifier {
			names[t.Value] = true
		}
		return true
	})
	return names
}

func patternShape(pattern *formulation.Operator) string {
	var sb strings.Builder
	if pattern.Left != nil {
		sb.WriteString("_ ")
	}
	switch head := pattern.Head.(type) {
	case *formulation.Command:
		sb.WriteString(formulation.Shape(head))
	default:
		sb.WriteString(formulation.Print(head))
	}
	if pattern.Right != nil {
		sb.WriteString(" _")
	}
	return sb.String()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
