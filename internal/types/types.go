package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rule names attached to the issues the engine reports.
const (
	RuleParse      = "parse-error"
	RuleNoMatch    = "no-matching-rule"
	RuleUndefined  = "undefined-signature"
	RuleDefinition = "invalid-rule"
)

// Severity represents how serious an issue is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(s.String()))
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch strings.ToUpper(name) {
	case "ERROR":
		*s = SeverityError
	case "WARNING":
		*s = SeverityWarning
	case "INFO":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Position is a 1-based line and column inside a formula file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Issue represents a problem found while rendering a formula file.
type Issue struct {
	Rule     string   `json:"rule"`
	Filename string   `json:"filename"`
	Message  string   `json:"message"`
	Note     string   `json:"note,omitempty"`
	Severity Severity `json:"severity"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

// Rendered is the expansion of a single formula line.
type Rendered struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Source string `json:"source"`
	Output string `json:"output"`
}
