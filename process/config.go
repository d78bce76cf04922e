package process

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mathlingua/mlg/rewrite"
)

// DefaultConfigurationFile is the configuration file looked up in the
// working directory and written by `mlg init`.
const DefaultConfigurationFile = ".mlg.yaml"

// Config represents the overall configuration: engine switches, inline
// rules and rule files to load.
type Config struct {
	Name            string            `yaml:"name" toml:"name"`
	StrictBindings  bool              `yaml:"strict_bindings" toml:"strict_bindings"`
	ReportUndefined bool              `yaml:"report_undefined" toml:"report_undefined"`
	Ignore          []string          `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	RuleFiles       []string          `yaml:"rule_files,omitempty" toml:"rule_files,omitempty"`
	Rules           []rewrite.RuleDef `yaml:"rules" toml:"rules"`
}

// DefaultConfig is the configuration `mlg init` writes.
func DefaultConfig() Config {
	return Config{
		Name:            "mlg",
		ReportUndefined: true,
		Rules: []rewrite.RuleDef{
			{Name: "set-membership", Pattern: `A \set.in/ B`, Template: `A?? \in B??`},
			{Name: "conjunction", Pattern: `\and{form}...`, Template: `form{... \wedge ...}??`},
			{Name: "disjunction", Pattern: `\or{form}...`, Template: `form{... \vee ...}??`},
			{Name: "negation", Pattern: `\not{form}`, Template: `\neg form??`},
			{Name: "set-builder", Pattern: `\set{x...}`, Template: `\{ x{, ...}? \}`},
		},
	}
}

// ParseConfigurationFile reads a YAML or TOML configuration file. Rule files
// it names are resolved relative to the configuration file and their rules
// are appended after the inline ones.
func ParseConfigurationFile(configurationPath string) (Config, error) {
	config := Config{ReportUndefined: true}
	if err := rewrite.DecodeFile(configurationPath, &config); err != nil {
		return config, err
	}

	dir := filepath.Dir(configurationPath)
	for i, file := range config.RuleFiles {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
			config.RuleFiles[i] = file
		}
		rules, err := rewrite.LoadRules(file)
		if err != nil {
			return config, fmt.Errorf("failed to load rule file: %w", err)
		}
		config.Rules = append(config.Rules, rules...)
	}
	return config, nil
}

// WriteConfigurationFile writes config to path in the format its extension
// names.
func WriteConfigurationFile(path string, config Config) error {
	var data []byte
	switch rewrite.DetectFormat(path) {
	case rewrite.FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("error marshalling config file: %w", err)
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("error marshalling config file: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
