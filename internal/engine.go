package internal

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/formulation"
	"github.com/mathlingua/mlg/internal/nolint"
	tt "github.com/mathlingua/mlg/internal/types"
	"github.com/mathlingua/mlg/rewrite"
)

// Options configures an Engine.
type Options struct {
	StrictBindings  bool
	ReportUndefined bool
	// DependencyFiles invalidate cached results when their content changes.
	DependencyFiles []string
	Logger          *zap.Logger
}

// Result is the outcome of rendering one or more formula files.
type Result struct {
	Issues   []tt.Issue
	Rendered []tt.Rendered
}

// Merge appends the issues and rendered lines of other to r.
func (r *Result) Merge(other Result) {
	r.Issues = append(r.Issues, other.Issues...)
	r.Rendered = append(r.Rendered, other.Rendered...)
}

// Sort orders issues and rendered lines by file and position.
func (r *Result) Sort() {
	sort.SliceStable(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Start.Column < b.Start.Column
	})
	sort.SliceStable(r.Rendered, func(i, j int) bool {
		a, b := r.Rendered[i], r.Rendered[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// HasErrors reports whether any issue has error severity.
func (r Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == tt.SeverityError {
			return true
		}
	}
	return false
}

// Engine renders formula files through a rule table.
type Engine struct {
	table           *rewrite.Table
	expander        *rewrite.Expander
	reportUndefined bool
	ignoredRules    map[string]bool
	ruleWarnings    []string
	cache           *Cache
	logger          *zap.Logger

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
}

// NewEngine creates a new engine from rule definitions. Rules that cannot be
// built are skipped and reported by RuleWarnings.
func NewEngine(rules []rewrite.RuleDef, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := NewCache(opts.DependencyFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	table, warnings := rewrite.BuildTable(rules)
	for _, w := range warnings {
		logger.Warn("rule definition", zap.String("warning", w))
	}
	logger.Debug("rule table built",
		zap.Int("rules", table.Len()),
		zap.Strings("signatures", table.Signatures()))

	return &Engine{
		table:           table,
		expander:        rewrite.NewExpander(table, rewrite.Matcher{StrictBindings: opts.StrictBindings}),
		reportUndefined: opts.ReportUndefined,
		ruleWarnings:    warnings,
		cache:           cache,
		logger:          logger,
	}, nil
}

// RuleWarnings returns the problems found while building the rule table.
func (e *Engine) RuleWarnings() []string {
	return e.ruleWarnings
}

// Signatures returns the signatures the rule table can rewrite.
func (e *Engine) Signatures() []string {
	return e.table.Signatures()
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
	e.cache.InvalidateAll()
}

// Run renders the formula file at filename.
func (e *Engine) Run(filename string) (Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("error reading file: %w", err)
	}

	if cached, ok := e.cache.Get(filename, source); ok {
		e.logger.Debug("cache hit", zap.String("path", filename))
		return cached, nil
	}

	result := e.RunSource(filename, source)
	e.cache.Set(filename, source, result)
	return result, nil
}

// RunSource renders formula file content. The filename is only used to
// label issues and rendered lines.
func (e *Engine) RunSource(filename string, source []byte) Result {
	lines := strings.Split(string(source), "\n")
	nolintMgr := nolint.ParseComments(lines)

	var result Result
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !nolint.IsFormula(line) {
			continue
		}
		lineNo := i + 1
		issues, rendered := e.renderLine(filename, lineNo, line)
		for _, issue := range issues {
			if e.ignoredRules[issue.Rule] || nolintMgr.IsNolint(lineNo, issue.Rule) {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
		result.Rendered = append(result.Rendered, rendered)
	}
	return result
}

// Expand parses and expands a single formula.
func (e *Engine) Expand(formula string) (string, []formulation.Diagnostic, []string) {
	root, diags := formulation.Parse(formula)
	output, matchDiags := e.expander.Expand(root)
	return output, diags, matchDiags
}

func (e *Engine) renderLine(filename string, lineNo int, line string) ([]tt.Issue, tt.Rendered) {
	root, diags := formulation.Parse(line)
	first, last := lineBounds(line)

	var issues []tt.Issue
	for _, d := range diags {
		column := d.Column
		if !d.Position().Known() {
			column = last
		}
		issues = append(issues, tt.Issue{
			Rule:     tt.RuleParse,
			Filename: filename,
			Message:  d.Message,
			Severity: tt.SeverityError,
			Start:    tt.Position{Line: lineNo, Column: column},
			End:      tt.Position{Line: lineNo, Column: column},
		})
	}

	output, matchDiags := e.expander.Expand(root)
	for _, msg := range matchDiags {
		issues = append(issues, tt.Issue{
			Rule:     tt.RuleNoMatch,
			Filename: filename,
			Message:  msg,
			Severity: tt.SeverityWarning,
			Start:    tt.Position{Line: lineNo, Column: first},
			End:      tt.Position{Line: lineNo, Column: last},
		})
	}

	if e.reportUndefined {
		issues = append(issues, e.undefinedSignatures(filename, lineNo, root)...)
	}

	return issues, tt.Rendered{
		File:   filename,
		Line:   lineNo,
		Source: strings.TrimSpace(line),
		Output: output,
	}
}

// undefinedSignatures reports each command whose signature has no rule.
func (e *Engine) undefinedSignatures(filename string, lineNo int, root formulation.Node) []tt.Issue {
	ancestry := formulation.BuildAncestry(root)
	seen := make(map[string]bool)

	var issues []tt.Issue
	formulation.Walk(root, func(n formulation.Node) bool {
		cmd, ok := n.(*formulation.Command)
		if !ok || !cmd.Pos.Known() {
			return true
		}
		sig, _ := formulation.Signature(cmd)
		if e.table.Has(sig) || seen[sig] {
			return true
		}
		seen[sig] = true

		issue := tt.Issue{
			Rule:     tt.RuleUndefined,
			Filename: filename,
			Message:  fmt.Sprintf("no rule defines '%s'", sig),
			Severity: tt.SeverityWarning,
			Start:    tt.Position{Line: lineNo, Column: cmd.Pos.Column},
			End:      tt.Position{Line: lineNo, Column: cmd.Pos.Column + len(sig) - 1},
		}
		if outer, ok := ancestry.Enclosing(cmd, formulation.NodeCommand); ok {
			issue.Note = fmt.Sprintf("used inside '%s'", formulation.Print(outer))
		}
		issues = append(issues, issue)
		return true
	})
	return issues
}

// lineBounds returns the columns of the first and last non-space characters.
func lineBounds(line string) (int, int) {
	trimmed := strings.TrimLeft(line, " \t")
	first := len(line) - len(trimmed) + 1
	last := len(strings.TrimRight(line, " \t"))
	return first, last
}
