package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/formatter"
	"github.com/mathlingua/mlg/internal"
	tt "github.com/mathlingua/mlg/internal/types"
	"github.com/mathlingua/mlg/process"
)

var (
	ignoreRules     string
	checkJsonOutput bool
	checkOutPath    string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report parse errors, unmatched rules and undefined signatures",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		log := nopIfNil(logger)

		engine, configPath, err := newEngine(log, cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize engine: %w", err)
		}

		if ignoreRules != "" {
			for _, rule := range strings.Split(ignoreRules, ",") {
				engine.IgnoreRule(strings.TrimSpace(rule))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		issues := ruleDefinitionIssues(configPath, engine.RuleWarnings())
		return runCheck(ctx, log, engine, args, issues, cmd.OutOrStdout(), checkJsonOutput, checkOutPath)
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of issue rules to ignore")
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&checkOutPath, "output", "o", "", "Output path (when using JSON)")
}

// ruleDefinitionIssues turns the warnings of the rule table into issues
// attached to the configuration file.
func ruleDefinitionIssues(configPath string, warnings []string) []tt.Issue {
	if configPath == "" {
		configPath = "<config>"
	}
	issues := make([]tt.Issue, 0, len(warnings))
	for _, w := range warnings {
		issues = append(issues, tt.Issue{
			Rule:     tt.RuleDefinition,
			Filename: configPath,
			Message:  w,
			Severity: tt.SeverityWarning,
		})
	}
	return issues
}

func runCheck(
	ctx context.Context,
	log *zap.Logger,
	engine process.RenderEngine,
	paths []string,
	extra []tt.Issue,
	w io.Writer,
	isJson bool,
	jsonOutput string,
) error {
	result, err := process.ProcessFiles(ctx, log, engine, paths, process.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}
	result.Issues = append(extra, result.Issues...)

	if err := printIssues(log, w, result.Issues, isJson, jsonOutput); err != nil {
		return err
	}

	if result.HasErrors() {
		return ErrIssuesFound
	}
	return nil
}

func printIssues(log *zap.Logger, w io.Writer, issues []tt.Issue, isJson bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJson {
		d, err := json.MarshalIndent(issuesByFile, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		return writeJSON(w, d, jsonOutput)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		fileIssues := issuesByFile[filename]
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			// rule definition issues point at a config file that may not exist
			log.Debug("Error reading source file", zap.String("file", filename), zap.Error(err))
			sourceCode = &internal.SourceCode{}
		}
		fmt.Fprint(w, formatter.GenerateFormattedIssue(fileIssues, sourceCode))
	}
	fmt.Fprintln(w, formatter.Summary(issues))
	return nil
}
