package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/internal"
	"github.com/mathlingua/mlg/process"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when a command found error-severity issues.
// The message has already been printed.
var ErrIssuesFound = errors.New("issues found")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "mlg [paths...]",
	Short:            "mlg - render and check formula files through rewrite rules",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'mlg' is entered
			return cmd.Help()
		}
		// Format: mlg [path1 path2 ...] => behaves like the render subcommand
		return renderCmd.RunE(renderCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default: "+process.DefaultConfigurationFile+" when present)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for processing all paths")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
}

// configurationPath returns the configuration file to use: the --config flag,
// or the default file when it exists in the working directory.
func configurationPath(flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(process.DefaultConfigurationFile); err == nil {
		return process.DefaultConfigurationFile
	}
	return ""
}

func newEngine(log *zap.Logger, configFlag string) (*internal.Engine, string, error) {
	path := configurationPath(configFlag)
	engine, err := process.New(path, log)
	if err != nil {
		return nil, path, err
	}
	if path != "" {
		log.Debug("configuration loaded", zap.String("path", path))
	}
	return engine, path, nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
