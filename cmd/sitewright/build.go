package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitewright/sitewright/buildinfo"
	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/metrics"
	"github.com/sitewright/sitewright/pipeline"
	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/reporter"
	"github.com/sitewright/sitewright/structerr"
	"github.com/sitewright/sitewright/telemetry"
	"github.com/sitewright/sitewright/tracing"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site once",
	Long: `Build runs the full pipeline: scan the content directory, copy assets,
render pages, and write the output manifest. A failing stage aborts the
build and exits non-zero.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	os.Setenv(reporter.ExecutingCommandEnvVar, reporter.BuildCommand)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	tel, closeTel := newTelemetryClient(cfg, logger.Logger)
	defer closeTel()

	recorder := tracing.NewRecorder()

	// Build runs are one-shot, so samples go straight to the remote write
	// endpoint instead of waiting to be scraped.
	var registry metrics.Registry = metrics.NullRegistry{}
	var push *metrics.PushRegistry
	if cfg.Monitoring.PushURL != "" {
		push = newPushRegistry(cfg)
		registry = push
	}

	rep, err := reporter.New(reporter.Options{
		Renderer: render.NewConsole(render.ConsoleOptions{
			Verbose: cfg.Output.Verbose,
			NoColor: cfg.Output.NoColor,
		}),
		Telemetry: tel,
		Tracer:    recorder,
		Metrics:   registry,
		Logger:    logger.Logger,
		Verbose:   cfg.Output.Verbose,
		NoColor:   cfg.Output.NoColor,
	})
	if err != nil {
		return err
	}

	rep.TrackCLI("command.build", telemetry.Fields{"version": buildinfo.Version()})
	rep.Verbosef("configuration loaded from %s", flagConfig)

	buildSpan := recorder.StartSpan("build")
	env := &pipeline.Env{
		Site:      cfg.Site,
		Reporter:  rep,
		BuildSpan: buildSpan,
	}
	pipe := pipeline.New(pipeline.Options{
		Stages: pipeline.DefaultStages(),
		Logger: logger.Logger,
	})

	started := time.Now()
	buildErr := pipe.Run(cmd.Context(), env)
	buildSpan.Finish()
	exportTrace(recorder, cfg.Tracing.TraceFile, logger.Logger)

	if buildErr != nil {
		// Reports and, because the executing command is "build", exits 1.
		rep.PanicOnBuild(structerr.Cause(buildErr))
		return nil
	}

	took := time.Since(started).Round(time.Millisecond)
	if push != nil {
		points := []metrics.Point{
			{Name: "build_duration_ms", Value: float64(took.Milliseconds())},
			{Name: "build_pages", Value: float64(len(env.Pages))},
			{Name: "build_assets", Value: float64(len(env.Assets))},
		}
		if err := push.PushSnapshot(cmd.Context(), points); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	rep.TrackCLI("command.build.done", telemetry.Fields{
		"pages":  len(env.Pages),
		"assets": len(env.Assets),
		"ms":     took.Milliseconds(),
	})
	rep.Successf("built %d pages and %d assets in %s", len(env.Pages), len(env.Assets), took)
	return nil
}
