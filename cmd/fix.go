package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/internal"
	"github.com/mathlingua/mlg/internal/fixer"
	"github.com/mathlingua/mlg/scanner"
)

var (
	dryRun  bool
	renames string
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite formula files in canonical form",
	Long: `Reprints every formula of the given files in canonical form. Formulas
that do not parse are left untouched. --rename renames identifiers while
rewriting.
Example) mlg fix --rename 'x=a, y=b' sets.mlgf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		renameMap, err := fixer.ParseRenames(renames)
		if err != nil {
			return err
		}
		fix := fixer.New(dryRun, renameMap)
		fix.Out = cmd.OutOrStdout()

		return runFix(ctx, nopIfNil(logger), fix, args)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().StringVar(&renames, "rename", "", "Comma separated identifier renames, e.g. 'x=a, y=b'")
}

func runFix(ctx context.Context, log *zap.Logger, fix *fixer.Fixer, paths []string) error {
	files, err := formulaFiles(paths)
	if err != nil {
		return err
	}

	total := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		changes, err := fix.Fix(file)
		if err != nil {
			log.Error("error fixing file", zap.String("path", file), zap.Error(err))
			continue
		}
		total += len(changes)
	}
	log.Debug("fix finished", zap.Int("files", len(files)), zap.Int("changes", total))
	return nil
}

// formulaFiles expands directories into the formula files below them.
// Files given explicitly are kept whatever their extension.
func formulaFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := scanner.New(path, internal.FormulaExtension).Paths()
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
