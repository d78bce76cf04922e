package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// RuleDef is a rule as written in a rules file.
type RuleDef struct {
	Name     string `yaml:"name" toml:"name"`
	Pattern  string `yaml:"pattern" toml:"pattern"`
	Template string `yaml:"template" toml:"template"`
}

// RulesConfig is the layout of a standalone rules file.
type RulesConfig struct {
	Rules []RuleDef `yaml:"rules" toml:"rules"`
}

// Format is the syntax of a rules or configuration file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	default:
		return "yaml"
	}
}

// DetectFormat picks the format from the file extension. Anything that is
// not `.toml` is read as YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return nil
}

// DecodeFile reads path and decodes it into v according to its extension.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Unmarshal(data, DetectFormat(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadRules reads the rules of a standalone rules file.
func LoadRules(path string) ([]RuleDef, error) {
	var cfg RulesConfig
	if err := DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return cfg.Rules, nil
}

// BuildTable adds every rule to a new table. Rules that cannot be compiled
// are skipped; their errors are returned as warnings along with the
// warnings of the rules that were added.
func BuildTable(defs []RuleDef) (*Table, []string) {
	table := NewTable()
	var warnings []string
	for _, def := range defs {
		ws, err := table.Add(def)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		warnings = append(warnings, ws...)
	}
	return table, warnings
}
