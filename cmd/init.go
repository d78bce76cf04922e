package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mathlingua/mlg/process"
)

// initCmd: mlg init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file with the default rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}

// initConfigurationFile writes the default configuration. A path ending in
// .toml is written as TOML, anything else as YAML.
func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = process.DefaultConfigurationFile
	}
	if err := process.WriteConfigurationFile(configurationPath, process.DefaultConfig()); err != nil {
		return "", err
	}
	return configurationPath, nil
}
