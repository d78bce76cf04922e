package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/formulation"
	"github.com/mathlingua/mlg/internal"
)

var (
	parseDot       bool
	parseOperators bool
	parseExpand    bool
	parseOutput    string
)

var parseCmd = &cobra.Command{
	Use:   "parse [formulas...]",
	Short: "Parse formulas and show their canonical form",
	Long: `Parses each formula given on the command line and prints its canonical
form, its signature and any diagnostics. With --dot the parse tree is
written as a GraphViz digraph instead.
Example) mlg parse --dot -o tree.dot 'X \set.in/ Y'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide at least one formula")
		}
		log := nopIfNil(logger)

		var engine *internal.Engine
		if parseExpand {
			var err error
			engine, _, err = newEngine(log, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize engine: %w", err)
			}
		}

		if parseDot {
			return runParseDot(log, args, parseOperators, parseOutput, cmd.OutOrStdout())
		}
		return runParse(args, engine, cmd.OutOrStdout())
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseDot, "dot", false, "Print the parse tree as a GraphViz digraph")
	parseCmd.Flags().BoolVar(&parseOperators, "operators", false, "Fold the tree into operators before printing it")
	parseCmd.Flags().BoolVar(&parseExpand, "expand", false, "Also expand the formula through the configured rules")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output path for the GraphViz file")
}

func runParse(formulas []string, engine *internal.Engine, w io.Writer) error {
	failed := false
	for i, src := range formulas {
		if i > 0 {
			fmt.Fprintln(w)
		}
		root, diags := formulation.Parse(src)

		fmt.Fprintf(w, "formula:   %s\n", src)
		fmt.Fprintf(w, "canonical: %s\n", formulation.Print(root))
		if sig, ok := formulation.Signature(root); ok {
			fmt.Fprintf(w, "signature: %s\n", sig)
		}
		if engine != nil {
			output, _, matchDiags := engine.Expand(src)
			fmt.Fprintf(w, "expanded:  %s\n", output)
			for _, d := range matchDiags {
				fmt.Fprintf(w, "  note: %s\n", d)
			}
		}
		for _, d := range diags {
			failed = true
			fmt.Fprintf(w, "  error: %s\n", d)
		}
	}
	if failed {
		return ErrIssuesFound
	}
	return nil
}

func runParseDot(log *zap.Logger, formulas []string, operators bool, output string, w io.Writer) error {
	var buf strings.Builder
	for _, src := range formulas {
		root, diags := formulation.Parse(src)
		for _, d := range diags {
			log.Warn("parse diagnostic", zap.String("formula", src), zap.Stringer("diagnostic", d))
		}

		var n formulation.Node = root
		if operators {
			n = formulation.OperatorTree(root.Children)
		}
		if err := formulation.WriteDot(&buf, n); err != nil {
			return err
		}
	}

	if output == "" {
		fmt.Fprint(w, buf.String())
		return nil
	}
	if err := os.WriteFile(output, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write GraphViz file: %w", err)
	}
	fmt.Fprintf(w, "GraphViz file created: %s\n", output)
	return nil
}
