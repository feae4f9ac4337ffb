package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/avpp/config"
	"github.com/kilianp07/avpp/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "avpp",
	Short:         "Abstraction of hierarchical virtual power plants",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults apply when empty)")
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.New("main").Errorf("%v", err)
	}
	return err
}

// loadConfig reads the configuration file, or returns the defaults when no
// file was given, and applies the logging section.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
