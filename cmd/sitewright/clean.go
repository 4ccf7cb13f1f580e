package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sitewright/sitewright/buildinfo"
	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/reporter"
	"github.com/sitewright/sitewright/structerr"
	"github.com/sitewright/sitewright/telemetry"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build output directory",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	os.Setenv(reporter.ExecutingCommandEnvVar, "clean")

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	tel, closeTel := newTelemetryClient(cfg, logger.Logger)
	defer closeTel()

	rep, err := reporter.New(reporter.Options{
		Telemetry: tel,
		Logger:    logger.Logger,
		Verbose:   cfg.Output.Verbose,
		NoColor:   cfg.Output.NoColor,
	})
	if err != nil {
		return err
	}

	rep.TrackCLI("command.clean", telemetry.Fields{"version": buildinfo.Version()})

	if err := os.RemoveAll(cfg.Site.OutputDir); err != nil {
		rep.Panic(structerr.Wrap("cleaning output failed", err))
	}

	rep.Successf("removed %s", cfg.Site.OutputDir)
	return nil
}
