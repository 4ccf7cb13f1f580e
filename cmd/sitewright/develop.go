package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sitewright/sitewright/buildinfo"
	"github.com/sitewright/sitewright/devserver"
	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/metrics"
	"github.com/sitewright/sitewright/pipeline"
	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/reporter"
	"github.com/sitewright/sitewright/schedule"
	"github.com/sitewright/sitewright/structerr"
	"github.com/sitewright/sitewright/telemetry"
	"github.com/sitewright/sitewright/tracing"
)

var developCmd = &cobra.Command{
	Use:   "develop",
	Short: "Rebuild on changes and serve live build status",
	Long: `Develop builds the site, then watches the content and asset directories
and rebuilds whenever something changes. A local HTTP server exposes the
state of the current build on /api/status, captured stage logs on
/api/logs, Prometheus metrics on /metrics, and a /health check.

A failing rebuild is reported and the server keeps running.`,
	RunE: runDevelop,
}

func init() {
	rootCmd.AddCommand(developCmd)
}

func runDevelop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	os.Setenv(reporter.ExecutingCommandEnvVar, "develop")

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	tel, closeTel := newTelemetryClient(cfg, logger.Logger)
	defer closeTel()

	recorder := tracing.NewRecorder()

	// Develop is long-lived, so metrics are registered once and scraped.
	scrape, err := metrics.NewScrapeRegistry()
	if err != nil {
		return err
	}

	board := render.NewBoard()
	collector := logging.NewCollector()

	rep, err := reporter.New(reporter.Options{
		Renderer: render.NewConsole(render.ConsoleOptions{
			Verbose: cfg.Output.Verbose,
			NoColor: cfg.Output.NoColor,
			Board:   board,
		}),
		Telemetry: tel,
		Tracer:    recorder,
		Metrics:   scrape,
		Logger:    logger.Logger,
		Verbose:   cfg.Output.Verbose,
		NoColor:   cfg.Output.NoColor,
	})
	if err != nil {
		return err
	}

	rep.TrackCLI("command.develop", telemetry.Fields{"version": buildinfo.Version()})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		rep.Infof("received %s, shutting down", sig)
		cancel()
	}()

	rebuildCounter, err := scrape.NewCounter(prometheus.CounterOpts{
		Name: "rebuilds_total",
		Help: "Completed develop-mode rebuilds.",
	})
	if err != nil {
		return err
	}

	// When a push URL is configured, the scrape registry is mirrored to the
	// remote write endpoint on the configured schedule.
	var nextPush func() *time.Time
	if cfg.Monitoring.PushURL != "" {
		push := newPushRegistry(cfg)
		trigger, err := schedule.NewTrigger(cfg.Monitoring.PushSchedule, func() error {
			points, err := metrics.SnapshotFrom(scrape.PrometheusRegistry())
			if err != nil {
				return err
			}
			return push.PushSnapshot(ctx, points)
		}, logger.Logger)
		if err != nil {
			return fmt.Errorf("invalid push_schedule: %w", err)
		}
		trigger.Start(ctx)
		nextPush = func() *time.Time {
			next := trigger.NextRun()
			return &next
		}
	}

	hook := logging.NewCapturingLoggerHook(collector)

	// The rebuild loop narrates to the console; server diagnostics stay on
	// the structured channel.
	console := slog.New(rep.SlogHandler())

	rebuilder := devserver.NewRebuilder(devserver.RebuilderOptions{
		Build: func(ctx context.Context) error {
			board.Clear()
			collector.Clear()

			span := recorder.StartSpan("rebuild")
			defer span.Finish()

			env := &pipeline.Env{
				Site:      cfg.Site,
				Reporter:  rep,
				BuildSpan: span,
			}
			pipe := pipeline.New(pipeline.Options{
				Stages: pipeline.DefaultStages(),
				Logger: logger.Logger,
				Hook:   hook,
			})

			if err := pipe.Run(ctx, env); err != nil {
				// Under develop this reports without exiting, and the
				// server keeps running.
				rep.PanicOnBuild(structerr.Cause(err))
				return err
			}

			rep.Successf("rebuilt %d pages and %d assets", len(env.Pages), len(env.Assets))
			return nil
		},
		Logger:   console,
		Counter:  rebuildCounter,
		NextPush: nextPush,
	})

	rebuilder.Rebuild(ctx)

	watcher, err := devserver.NewWatcher(
		[]string{cfg.Site.ContentDir, cfg.Site.AssetDir},
		cfg.Develop.Debounce,
		func() { go rebuilder.Rebuild(ctx) },
		console,
	)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	watcher.Start(ctx)

	srv := devserver.New(devserver.Options{
		Addr:      cfg.Monitoring.ListenAddr,
		Logger:    logger.Logger,
		Board:     board,
		Collector: collector,
		Metrics:   scrape.Handler(),
		Status:    rebuilder,
	})

	rep.Infof("watching %s for changes", cfg.Site.ContentDir)
	rep.Infof("status server listening on %s", cfg.Monitoring.ListenAddr)

	runErr := srv.Run(ctx)
	exportTrace(recorder, cfg.Tracing.TraceFile, logger.Logger)
	return runErr
}
