package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sitewright/sitewright/buildinfo"
	"github.com/sitewright/sitewright/config"
	"github.com/sitewright/sitewright/metrics"
	"github.com/sitewright/sitewright/telemetry"
	"github.com/sitewright/sitewright/tracing"
)

// newTelemetryClient opens the JSONL event store, or returns the null client
// when telemetry is disabled or the store cannot be opened. A broken store
// must never block a build, so open failures only get a debug line. The
// returned func closes the store.
func newTelemetryClient(cfg config.Config, logger *slog.Logger) (telemetry.Client, func()) {
	if cfg.Telemetry.Disabled {
		return telemetry.Null{}, func() {}
	}

	path := cfg.Telemetry.StorePath
	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			logger.Debug("telemetry off: no cache directory", "error", err)
			return telemetry.Null{}, func() {}
		}
		path = filepath.Join(cacheDir, "sitewright", "events.jsonl")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Debug("telemetry off: cannot create store directory", "error", err)
		return telemetry.Null{}, func() {}
	}

	store, err := telemetry.NewStore(telemetry.StoreOptions{
		Path:    path,
		Version: buildinfo.Version(),
	})
	if err != nil {
		logger.Debug("telemetry off", "error", err)
		return telemetry.Null{}, func() {}
	}

	return store, func() {
		if err := store.Close(); err != nil {
			logger.Debug("closing telemetry store", "error", err)
		}
	}
}

// newPushRegistry builds the remote write registry for the configured
// endpoint, labeling every sample with this machine's hostname.
func newPushRegistry(cfg config.Config) *metrics.PushRegistry {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return metrics.NewPushRegistry(metrics.PushConfig{
		URL:      cfg.Monitoring.PushURL,
		Prefix:   cfg.Monitoring.MetricsPrefix,
		Job:      cfg.Monitoring.JobName,
		Instance: hostname,
	})
}

// exportTrace writes the recorded spans to the configured trace file. An
// empty path disables the export; failures are logged, not returned, since
// the build result does not depend on the trace.
func exportTrace(recorder *tracing.Recorder, path string, logger *slog.Logger) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		logger.Warn("trace export failed", "path", path, "error", err)
		return
	}
	defer f.Close()

	if err := recorder.Export(f); err != nil {
		logger.Warn("trace export failed", "path", path, "error", err)
	}
}
