package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/formatter"
	"github.com/mathlingua/mlg/internal"
	"github.com/mathlingua/mlg/process"
)

var (
	renderJsonOutput bool
	renderOutPath    string
	renderWatch      bool
	renderShowSource bool
)

var renderCmd = &cobra.Command{
	Use:   "render [paths...]",
	Short: "Expand every formula through the rewrite rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		log := nopIfNil(logger)

		engine, _, err := newEngine(log, cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize engine: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := renderOptions{
			json:       renderJsonOutput,
			outPath:    renderOutPath,
			showSource: renderShowSource,
		}
		if err := runRender(ctx, log, engine, args, cmd.OutOrStdout(), opts); err != nil {
			return err
		}

		if renderWatch {
			return watchAndRender(log, engine, args, cmd.OutOrStdout(), opts)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderJsonOutput, "json", false, "Output rendered formulas in JSON format")
	renderCmd.Flags().StringVarP(&renderOutPath, "output", "o", "", "Output path (when using JSON)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render files as they change")
	renderCmd.Flags().BoolVar(&renderShowSource, "source", false, "Show each formula above its expansion")
}

type renderOptions struct {
	json       bool
	outPath    string
	showSource bool
}

func runRender(ctx context.Context, log *zap.Logger, engine process.RenderEngine, paths []string, w io.Writer, opts renderOptions) error {
	result, err := process.ProcessFiles(ctx, log, engine, paths, process.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	if !opts.json {
		fmt.Fprint(w, formatter.FormatRendered(result.Rendered, opts.showSource))
		return nil
	}

	d, err := json.MarshalIndent(result.Rendered, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling rendered formulas to JSON: %w", err)
	}
	return writeJSON(w, d, opts.outPath)
}

func watchAndRender(log *zap.Logger, engine *internal.Engine, paths []string, w io.Writer, opts renderOptions) error {
	dirs := watchDirectories(paths)
	err := engine.StartWatching(dirs, func(filename string, result internal.Result) {
		fmt.Fprint(w, formatter.FormatRendered(result.Rendered, opts.showSource))
	})
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	defer func() {
		if err := engine.StopWatching(); err != nil {
			log.Error("failed to stop watching", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

// watchDirectories maps each path to the directory to watch: directories
// themselves, the parent of files.
func watchDirectories(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, path := range paths {
		dir := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func writeJSON(w io.Writer, d []byte, outPath string) error {
	if outPath == "" {
		_, err := fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(outPath, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
