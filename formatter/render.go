package formatter

import (
	"fmt"
	"strings"

	tt "github.com/mathlingua/mlg/internal/types"
)

// FormatRendered prints one line per rendered formula, prefixed by its
// location. With showSource the original formula is printed above it.
func FormatRendered(rendered []tt.Rendered, showSource bool) string {
	var builder strings.Builder
	for _, r := range rendered {
		location := fileStyle.Sprintf("%s:%d:", r.File, r.Line)
		if showSource {
			builder.WriteString(fmt.Sprintf("%s %s\n", location, r.Source))
			builder.WriteString(lineStyle.Sprint("  => "))
			builder.WriteString(outputStyle.Sprintf("%s\n", r.Output))
			continue
		}
		builder.WriteString(fmt.Sprintf("%s %s\n", location, outputStyle.Sprint(r.Output)))
	}
	return builder.String()
}

// Summary counts issues by severity.
func Summary(issues []tt.Issue) string {
	if len(issues) == 0 {
		return noteStyle.Sprint("no issues found")
	}

	counts := make(map[tt.Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}

	var parts []string
	for _, s := range []tt.Severity{tt.SeverityError, tt.SeverityWarning, tt.SeverityInfo} {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, strings.ToLower(s.String()))))
		}
	}
	return fmt.Sprintf("found %d %s (%s)", len(issues), plural(len(issues), "issue"), strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
