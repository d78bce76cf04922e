package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/internal"
	"github.com/mathlingua/mlg/scanner"
)

type RenderEngine interface {
	Run(filePath string) (internal.Result, error)
	RunSource(filename string, source []byte) internal.Result
	IgnoreRule(rule string)
}

// Source is formula file content that does not come from disk.
type Source struct {
	Name    string
	Content []byte
}

// New creates an engine from the configuration file at configurationPath.
// An empty path gives an engine without rules.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config := Config{ReportUndefined: true}
	var dependencies []string
	if configurationPath != "" {
		var err error
		config, err = ParseConfigurationFile(configurationPath)
		if err != nil {
			return nil, err
		}
		dependencies = append([]string{configurationPath}, config.RuleFiles...)
	}
	return NewFromConfig(config, logger, dependencies...)
}

// NewFromConfig creates an engine from an already parsed configuration.
func NewFromConfig(config Config, logger *zap.Logger, dependencies ...string) (*internal.Engine, error) {
	engine, err := internal.NewEngine(config.Rules, internal.Options{
		StrictBindings:  config.StrictBindings,
		ReportUndefined: config.ReportUndefined,
		DependencyFiles: dependencies,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	for _, rule := range config.Ignore {
		engine.IgnoreRule(rule)
	}
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine RenderEngine,
	sources []Source,
	processor func(RenderEngine, Source) (internal.Result, error),
) (internal.Result, error) {
	var all internal.Result
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return internal.Result{}, err
		}
		result, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.String("source", source.Name), zap.Error(err))
			}
			return internal.Result{}, err
		}
		all.Merge(result)
	}
	return all, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine RenderEngine,
	paths []string,
	processor func(RenderEngine, string) (internal.Result, error),
) (internal.Result, error) {
	var all internal.Result
	for _, path := range paths {
		result, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return internal.Result{}, err
		}
		all.Merge(result)
	}
	all.Sort()
	return all, nil
}

// ProcessPath processes a single formula file, or every formula file below
// a directory with a pool of workers.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine RenderEngine,
	path string,
	processor func(RenderEngine, string) (internal.Result, error),
) (internal.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return internal.Result{}, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return internal.Result{}, nil
		}
		return processor(engine, path)
	}

	files, err := scanner.New(path, internal.FormulaExtension).Paths()
	if err != nil {
		return internal.Result{}, fmt.Errorf("error scanning %s: %w", path, err)
	}

	type fileResult struct {
		result internal.Result
		err    error
	}
	resultChan := make(chan fileResult, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return internal.Result{}, err
		}
		select {
		case <-ctx.Done():
			return internal.Result{}, ctx.Err()
		case sem <- struct{}{}:
			go func(fp string) {
				defer func() { <-sem }()

				result, err := processor(engine, fp)
				if err != nil && logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				resultChan <- fileResult{result: result, err: err}
				_ = bar.Add(1)
			}(filePath)
		}
	}

	// collect all results
	var all internal.Result
	for range files {
		fr := <-resultChan
		if fr.err != nil {
			continue
		}
		all.Merge(fr.result)
	}
	_ = bar.Finish()

	all.Sort()
	return all, nil
}

func ProcessFile(engine RenderEngine, filePath string) (internal.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine RenderEngine, source Source) (internal.Result, error) {
	return engine.RunSource(source.Name, source.Content), nil
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == internal.FormulaExtension
}
