package template

import (
	"fmt"
	"strings"
)

// Mode controls how each substituted value is parenthesized.
type Mode int

const (
	ModeBare    Mode = iota // N?   never adds parentheses
	ModeComplex             // N??  parenthesizes complex values
	ModeForce               // N+?  always parenthesizes
	ModeNever               // N-?  never parenthesizes
)

func (m Mode) String() string {
	switch m {
	case ModeBare:
		return "?"
	case ModeComplex:
		return "??"
	case ModeForce:
		return "+?"
	case ModeNever:
		return "-?"
	default:
		return "unknown"
	}
}

// Segment is one piece of a parsed template.
type Segment interface {
	String() string
	segment()
}

var (
	_ Segment = Literal{}
	_ Segment = Capture{}
	_ Segment = CaptureGroup{}
)

// Literal is text copied to the output unchanged.
type Literal struct {
	Text string
}

// Capture is `N?` (and its `??`, `+?`, `-?` variants): every value bound to N,
// joined by a single space.
type Capture struct {
	Name string
	Mode Mode
}

// CaptureGroup is `N{PREFIX...SEP...SUFFIX}?`: every value bound to N joined
// by Separator, the run wrapped once in Prefix and Suffix.
type CaptureGroup struct {
	Name      string
	Prefix    string
	Separator string
	Suffix    string
	Mode      Mode
}

func (Literal) segment()      {}
func (Capture) segment()      {}
func (CaptureGroup) segment() {}

func (l Literal) String() string { return l.Text }
func (c Capture) String() string { return c.Name + c.Mode.String() }
func (g CaptureGroup) String() string {
	return fmt.Sprintf("%s{%s...%s...%s}%s", g.Name, g.Prefix, g.Separator, g.Suffix, g.Mode)
}

// Template is a template string parsed once into segments.
type Template struct {
	Source   string
	Segments []Segment
}

// Names returns the capture names the template refers to, in order of
// first use.
func (t *Template) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, seg := range t.Segments {
		var name string
		switch s := seg.(type) {
		case Capture:
			name = s.Name
		case CaptureGroup:
			name = s.Name
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func (t *Template) String() string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(seg.String())
	}
	return sb.String()
}

// Parse splits src into literal and placeholder segments. When names is not
// nil only those names are recognized as placeholders, so words such as
// `in` in `A? \in B?` stay literal even when followed by `?`. Malformed
// group placeholders are kept as literal text and reported in the returned
// warnings.
func Parse(src string, names map[string]bool) (*Template, []string) {
	t := &Template{Source: src}
	var warnings []string
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.Segments = append(t.Segments, Literal{Text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(src) {
		if !isIdentByte(src[i]) || (i > 0 && (isIdentByte(src[i-1]) || src[i-1] == '\\')) {
			lit.WriteByte(src[i])
			i++
			continue
		}

		j := i
		for j < len(src) && isIdentByte(src[j]) {
			j++
		}
		name := src[i:j]
		if names != nil && !names[name] {
			lit.WriteString(name)
			i = j
			continue
		}

		if j < len(src) && src[j] == '{' {
			if k := closingBrace(src, j); k >= 0 {
				if mode, n := readMode(src[k+1:]); n > 0 {
					prefix, sep, suffix, ok := splitGroupBody(src[j+1 : k])
					if ok {
						flush()
						t.Segments = append(t.Segments, CaptureGroup{
							Name:      name,
							Prefix:    prefix,
							Separator: sep,
							Suffix:    suffix,
							Mode:      mode,
						})
						i = k + 1 + n
						continue
					}
					warnings = append(warnings, fmt.Sprintf(
						"placeholder '%s' needs the form %s{PREFIX...SEP...SUFFIX}?", src[i:k+1+n], name))
				}
			}
		} else if mode, n := readMode(src[j:]); n > 0 {
			flush()
			t.Segments = append(t.Segments, Capture{Name: name, Mode: mode})
			i = j + n
			continue
		}

		lit.WriteString(name)
		i = j
	}
	flush()

	return t, warnings
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// readMode recognizes the placeholder terminator at the start of s and
// returns its length, or 0 when there is none.
func readMode(s string) (Mode, int) {
	switch {
	case strings.HasPrefix(s, "??"):
		return ModeComplex, 2
	case strings.HasPrefix(s, "+?"):
		return ModeForce, 2
	case strings.HasPrefix(s, "-?"):
		return ModeNever, 2
	case strings.HasPrefix(s, "?"):
		return ModeBare, 1
	default:
		return ModeBare, 0
	}
}

// closingBrace returns the index of the brace matching the one at open.
func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitGroupBody accepts `P...S...Q`, `S...`, `...S` and `P...Q`.
func splitGroupBody(body string) (prefix, sep, suffix string, ok bool) {
	parts := strings.Split(body, "...")
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2], true
	case 2:
		switch {
		case parts[0] == "" && parts[1] == "":
			return "", " ", "", true
		case parts[1] == "":
			return "", parts[0], "", true
		case parts[0] == "":
			return "", parts[1], "", true
		default:
			return parts[0], " ", parts[1], true
		}
	default:
		return "", "", "", false
	}
}
