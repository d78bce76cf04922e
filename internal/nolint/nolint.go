package nolint

import (
	"fmt"
	"strings"
)

const (
	commentPrefix = "%"
	nolintPrefix  = "%nolint"
)

// Manager manages nolint scopes and checks if a line is nolinted.
type Manager struct {
	scopes []nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// IsComment reports whether a formula file line is a comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commentPrefix)
}

// IsFormula reports whether a formula file line holds a formula.
func IsFormula(line string) bool {
	return strings.TrimSpace(line) != "" && !IsComment(line)
}

// ParseComments parses nolint comments in the lines of a formula file
// and returns a Manager. Lines are numbered from 1.
func ParseComments(lines []string) *Manager {
	manager := Manager{}
	firstFormula := firstFormulaLine(lines)

	for i, line := range lines {
		if !IsComment(line) {
			continue
		}
		ns, err := parseComment(lines, i+1, firstFormula)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return &manager
}

// parseComment parses the nolint comment on the given line and determines its scope.
func parseComment(lines []string, line, firstFormula int) (nolintScope, error) {
	var ns nolintScope
	text := strings.TrimSpace(lines[line-1])

	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("not a nolint comment")
	}

	rest := text[len(nolintPrefix):]
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)

	// a comment above the first formula covers the whole file
	if firstFormula == 0 || line < firstFormula {
		ns.start = 1
		ns.end = len(lines)
		return ns, nil
	}

	// otherwise it covers the next formula
	ns.start = line
	ns.end = line
	for next := line + 1; next <= len(lines); next++ {
		if IsFormula(lines[next-1]) {
			ns.end = next
			break
		}
	}
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

func firstFormulaLine(lines []string) int {
	for i, line := range lines {
		if IsFormula(line) {
			return i + 1
		}
	}
	return 0
}

// IsNolint checks if a given line and rule are nolinted.
func (m *Manager) IsNolint(line int, ruleName string) bool {
	for _, ns := range m.scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
