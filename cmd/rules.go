package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mathlingua/mlg/internal"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the signatures defined by the configured rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, path, err := newEngine(nopIfNil(logger), cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize engine: %w", err)
		}
		if path == "" {
			path = "<none>"
		}
		listRules(cmd.OutOrStdout(), path, engine)
		return nil
	},
}

var (
	signatureStyle = color.New(color.FgCyan)
	warningStyle   = color.New(color.FgHiYellow, color.Bold)
)

func listRules(w io.Writer, configPath string, engine *internal.Engine) {
	signatures := engine.Signatures()
	fmt.Fprintf(w, "configuration: %s\n", configPath)
	fmt.Fprintf(w, "%d signatures\n", len(signatures))
	for _, sig := range signatures {
		fmt.Fprintf(w, "  %s\n", signatureStyle.Sprint(sig))
	}
	warnings := engine.RuleWarnings()
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s\n", warningStyle.Sprint("warning:"), warning)
	}
}
