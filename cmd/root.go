package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerplan/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "powerplan",
	Short:         "Household electricity schedule optimizer",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies its log settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Log.Apply(); err != nil {
		return nil, fmt.Errorf("log config: %w", err)
	}
	return cfg, nil
}
