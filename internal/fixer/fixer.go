package fixer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mathlingua/mlg/formulation"
	"github.com/mathlingua/mlg/internal/nolint"
)

// Fixer rewrites the formulas of a formula file in place. Every formula is
// reprinted in canonical form after the renames are applied; formulas with
// parse errors are left as written.
type Fixer struct {
	DryRun  bool
	Renames map[string]string
	Out     io.Writer
}

func New(dryRun bool, renames map[string]string) *Fixer {
	return &Fixer{
		DryRun:  dryRun,
		Renames: renames,
		Out:     os.Stdout,
	}
}

// Change is one rewritten formula line.
type Change struct {
	Line   int
	Before string
	After  string
}

// Fix rewrites filename and returns the lines it changed. In dry-run mode
// the changes are only printed.
func (f *Fixer) Fix(filename string) ([]Change, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	var changes []Change

	for i, line := range lines {
		if !nolint.IsFormula(line) {
			continue
		}
		body := strings.TrimSuffix(line, "\r")
		fixed, ok := f.fixLine(body)
		if !ok || fixed == body {
			continue
		}
		changes = append(changes, Change{Line: i + 1, Before: body, After: fixed})
		lines[i] = fixed + line[len(body):]
	}

	if f.DryRun {
		for _, c := range changes {
			fmt.Fprintf(f.Out, "Would fix %s at line %d:\n- %s\n+ %s\n",
				filename, c.Line, strings.TrimSpace(c.Before), strings.TrimSpace(c.After))
		}
		return changes, nil
	}

	if len(changes) == 0 {
		return nil, nil
	}

	if err := os.WriteFile(filename, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintf(f.Out, "Fixed %d formulas in %s\n", len(changes), filename)
	return changes, nil
}

func (f *Fixer) fixLine(line string) (string, bool) {
	root, diags := formulation.Parse(line)
	if len(diags) > 0 {
		return "", false
	}

	var n formulation.Node = root
	if len(f.Renames) > 0 {
		n = formulation.RenameVariables(n, f.Renames)
	}
	return extractIndent(line) + formulation.Print(n), true
}

func extractIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// ParseRenames parses `old=new` pairs separated by commas.
func ParseRenames(list string) (map[string]string, error) {
	renames := make(map[string]string)
	if strings.TrimSpace(list) == "" {
		return renames, nil
	}
	for _, pair := range strings.Split(list, ",") {
		from, to, ok := strings.Cut(strings.TrimSpace(pair), "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid rename %q: expected old=new", pair)
		}
		renames[from] = to
	}
	return renames, nil
}
