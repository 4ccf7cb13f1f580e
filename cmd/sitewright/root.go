package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitewright/sitewright/config"
)

var (
	flagConfig  string
	flagVerbose bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "sitewright",
	Short: "sitewright builds static sites and narrates every step",
	Long: `sitewright turns a directory of pages and assets into a static site.

Build progress, structured errors, traces, and metrics all flow through one
reporter, so a build reads the same on a laptop and in CI. The develop
command watches the content directory, rebuilds on change, and serves live
build status over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show verbose output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configured file and folds the global flags in. A
// missing file is only an error when the user pointed at it explicitly;
// the default path falls back to built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if _, err := os.Stat(flagConfig); err == nil {
		cfg, err = config.LoadConfig(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
	} else if !os.IsNotExist(err) || flagConfig != config.DefaultPath {
		return config.Config{}, fmt.Errorf("reading config %s: %w", flagConfig, err)
	}

	if flagVerbose {
		cfg.Output.Verbose = true
	}
	if flagNoColor {
		cfg.Output.NoColor = true
	}
	return cfg, nil
}
