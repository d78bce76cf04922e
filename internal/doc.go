// Package internal renders formula files.
//
// A formula file (.mlgf) holds one formula per line. Blank lines and lines
// starting with % are skipped. A %nolint comment silences issues on the next
// formula, or in the whole file when it comes before the first formula;
// %nolint:rule1,rule2 limits it to the named rules.
//
// Engine parses each formula, expands it through the rewrite rule table and
// reports three kinds of issues:
//
//   - parse-error: a tokenizer or parser diagnostic (error).
//   - no-matching-rule: a rule with the right signature did not match (warning).
//   - undefined-signature: a command no rule can rewrite (warning).
//
// Results are cached by content hash, and StartWatching re-renders files as
// they change.
//
// Usage:
//
//	engine, err := internal.NewEngine(rules, internal.Options{ReportUndefined: true})
//	if err != nil {
//	    // handle error
//	}
//	result, err := engine.Run("path/to/file.mlgf")
package internal
