// Package reporter is the process-wide status and error reporter for
// sitewright commands. Every user-visible message, activity indicator,
// structured error, duration metric, and trace span flows through one
// Reporter value.
//
// The Reporter itself owns no I/O. Its collaborators arrive via Options:
//
//   - render.Renderer draws messages and activities
//   - errfmt.Formatter turns structured errors into text
//   - telemetry.Client receives error reports and CLI events
//   - tracing.Tracer provides spans for activities
//   - metrics.Registry receives duration gauges and error counters
//
// Each collaborator has a null implementation, so a zero Options value
// yields a Reporter that renders to the console and does nothing else.
//
// # Fatal errors
//
// Panic reports and then terminates the process. PanicOnBuild does the same
// during `sitewright build`, but downgrades to a plain error report in
// long-running commands like develop, where one broken rebuild must not
// kill the server. The decision reads the executing-command variable at
// call time, not at construction, because the command wrapper sets it after
// the reporter already exists.
package reporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sitewright/sitewright/activity"
	"github.com/sitewright/sitewright/errfmt"
	"github.com/sitewright/sitewright/metrics"
	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/structerr"
	"github.com/sitewright/sitewright/telemetry"
	"github.com/sitewright/sitewright/tracing"
)

// ExecutingCommandEnvVar names the variable the command wrapper sets to the
// running subcommand ("build", "develop", ...). PanicOnBuild reads it to
// decide whether a failure is fatal.
const ExecutingCommandEnvVar = "SITEWRIGHT_EXECUTING_COMMAND"

// BuildCommand is the ExecutingCommandEnvVar value under which
// PanicOnBuild terminates the process.
const BuildCommand = "build"

// Error kinds used for telemetry and metrics labels.
const (
	KindGeneralPanic = "panic.general"
	KindBuildPanic   = "panic.build"
	KindError        = "error.generic"
)

// Options configures a Reporter. Nil fields get working defaults.
type Options struct {
	// Renderer draws all output. Defaults to a console renderer on stdout.
	Renderer render.Renderer

	// Formatter renders structured errors. Defaults to errfmt.NewText.
	Formatter errfmt.Formatter

	// Telemetry receives error and CLI events. Defaults to telemetry.Null.
	Telemetry telemetry.Client

	// Tracer provides activity spans. Defaults to tracing.NullTracer.
	Tracer tracing.Tracer

	// Metrics receives the activity duration gauge and error counter.
	// Defaults to metrics.NullRegistry.
	Metrics metrics.Registry

	// Logger is the diagnostic channel. Defaults to a discarding logger.
	Logger *slog.Logger

	// LookupEnv overrides environment access in tests. Defaults to
	// os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Exit terminates the process after a panic report. Defaults to
	// os.Exit.
	Exit func(code int)

	// Now overrides the clock used to time activities. Defaults to
	// time.Now.
	Now func() time.Time

	// Verbose enables verbose messages from the start.
	Verbose bool

	// NoColor disables colored output from the start.
	NoColor bool
}

// Reporter is the facade. Create one per process with New.
type Reporter struct {
	renderer  render.Renderer
	formatter errfmt.Formatter
	telemetry telemetry.Client
	tracer    tracing.Tracer
	logger    *slog.Logger
	lookupEnv func(string) (string, bool)
	exit      func(int)
	now       func() time.Time

	durations metrics.GaugeVec
	errors    metrics.CounterVec
	seq       atomic.Int64
}

// New creates a Reporter, filling unset options with defaults. The only
// failure mode is metric registration.
func New(opts Options) (*Reporter, error) {
	r := &Reporter{
		renderer:  opts.Renderer,
		formatter: opts.Formatter,
		telemetry: opts.Telemetry,
		tracer:    opts.Tracer,
		logger:    opts.Logger,
		lookupEnv: opts.LookupEnv,
		exit:      opts.Exit,
		now:       opts.Now,
	}

	if r.renderer == nil {
		r.renderer = render.NewConsole(render.ConsoleOptions{
			Verbose: opts.Verbose,
			NoColor: opts.NoColor,
		})
	} else {
		// An injected renderer keeps its own settings; options only switch
		// features on, never off.
		if opts.Verbose {
			r.renderer.SetVerbose(true)
		}
		if opts.NoColor {
			r.renderer.SetColors(false)
		}
	}
	if r.formatter == nil {
		r.formatter = errfmt.NewText()
	}
	if opts.NoColor {
		r.formatter.WithoutColors()
	}
	if r.telemetry == nil {
		r.telemetry = telemetry.Null{}
	}
	if r.tracer == nil {
		r.tracer = tracing.NullTracer{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.lookupEnv == nil {
		r.lookupEnv = os.LookupEnv
	}
	if r.exit == nil {
		r.exit = os.Exit
	}
	if r.now == nil {
		r.now = time.Now
	}

	registry := opts.Metrics
	if registry == nil {
		registry = metrics.NullRegistry{}
	}

	durations, err := registry.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_duration_ms",
		Help: "Duration of the last run of each activity, in milliseconds.",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("registering duration gauge: %w", err)
	}

	errCounter, err := registry.NewCounterVec(prometheus.CounterOpts{
		Name: "reporter_errors_total",
		Help: "Errors reported, by kind.",
	}, []string{"kind"})
	if err != nil {
		return nil, fmt.Errorf("registering error counter: %w", err)
	}

	r.durations = durations
	r.errors = errCounter
	return r, nil
}

// Success prints a success message.
func (r *Reporter) Success(text string) { r.renderer.Success(text) }

// Successf prints a formatted success message.
func (r *Reporter) Successf(format string, args ...any) {
	r.renderer.Success(fmt.Sprintf(format, args...))
}

// Info prints an informational message.
func (r *Reporter) Info(text string) { r.renderer.Info(text) }

// Infof prints a formatted informational message.
func (r *Reporter) Infof(format string, args ...any) {
	r.renderer.Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning.
func (r *Reporter) Warn(text string) { r.renderer.Warn(text) }

// Warnf prints a formatted warning.
func (r *Reporter) Warnf(format string, args ...any) {
	r.renderer.Warn(fmt.Sprintf(format, args...))
}

// Log prints an unadorned message.
func (r *Reporter) Log(text string) { r.renderer.Log(text) }

// Logf prints a formatted unadorned message.
func (r *Reporter) Logf(format string, args ...any) {
	r.renderer.Log(fmt.Sprintf(format, args...))
}

// Verbose prints a message shown only in verbose mode.
func (r *Reporter) Verbose(text string) { r.renderer.Verbose(text) }

// Verbosef prints a formatted message shown only in verbose mode.
func (r *Reporter) Verbosef(format string, args ...any) {
	r.renderer.Verbose(fmt.Sprintf(format, args...))
}

// SetVerbose toggles verbose output.
func (r *Reporter) SetVerbose(enabled bool) {
	r.renderer.SetVerbose(enabled)
}

// SetNoColor toggles color stripping. Turning colors off also flattens the
// error formatter; that direction is one-way, matching how the flag is used.
func (r *Reporter) SetNoColor(noColor bool) {
	r.renderer.SetColors(!noColor)
	if noColor {
		r.formatter.WithoutColors()
	}
}

// Error reports one or more failures without stopping the process. The
// input is normalized, rendered, counted, and sent to telemetry; the
// resulting structured errors are returned for callers that aggregate.
func (r *Reporter) Error(in structerr.Input) []*structerr.Error {
	return r.report(KindError, in)
}

// Panic reports the failure and terminates the process with exit code 1.
func (r *Reporter) Panic(in structerr.Input) {
	r.report(KindGeneralPanic, in)
	r.exit(1)
}

// PanicOnBuild reports the failure, then terminates the process only when
// the executing command is "build". Other commands get the report and keep
// running; the normalized errors are returned so rebuild loops can show
// them again.
func (r *Reporter) PanicOnBuild(in structerr.Input) []*structerr.Error {
	kind := KindBuildPanic
	errs := r.report(kind, in)
	if cmd, _ := r.lookupEnv(ExecutingCommandEnvVar); cmd == BuildCommand {
		r.exit(1)
	}
	return errs
}

func (r *Reporter) report(kind string, in structerr.Input) []*structerr.Error {
	errs := structerr.Normalize(in)
	for _, e := range errs {
		r.renderer.Error(r.formatter.Render(e))
		r.telemetry.TrackError(kind, e)
		r.errors.With(prometheus.Labels{"kind": kind}).Inc()
		r.logger.Error(e.Context.SourceMessage, "kind", kind, "cause", e.Err)
	}
	return errs
}

// ActivityOption customizes activity creation.
type ActivityOption func(*activityConfig)

type activityConfig struct {
	parent tracing.Span
}

// WithParent nests the activity's span under an existing span.
func WithParent(parent tracing.Span) ActivityOption {
	return func(c *activityConfig) {
		c.parent = parent
	}
}

// CreateActivity returns a timed activity tracker. The returned timer is
// inert until its Start method is called.
func (r *Reporter) CreateActivity(text string, opts ...ActivityOption) *activity.Timer {
	return activity.NewTimer(activity.TimerOptions{
		ID:       r.nextID(),
		Text:     text,
		Renderer: r.renderer,
		Span:     r.startSpan(text, opts),
		Now:      r.now,
		OnDuration: func(name string, elapsed time.Duration) {
			ms := elapsed.Round(time.Millisecond).Milliseconds()
			r.telemetry.TrackCLI("activity.duration", telemetry.Fields{
				"name": name,
				"ms":   ms,
			})
			r.durations.With(prometheus.Labels{"activity": name}).Set(float64(ms))
			r.logger.Debug("activity finished", "activity", name, "ms", ms)
		},
	})
}

// CreateProgress returns a counting activity tracker. Progress activities
// report no duration; only their span marks the elapsed time.
func (r *Reporter) CreateProgress(text string, total int64, opts ...ActivityOption) *activity.Progress {
	return activity.NewProgress(activity.ProgressOptions{
		ID:       r.nextID(),
		Text:     text,
		Total:    total,
		Renderer: r.renderer,
		Span:     r.startSpan(text, opts),
		Now:      r.now,
	})
}

func (r *Reporter) startSpan(name string, opts []ActivityOption) tracing.Span {
	var cfg activityConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.parent != nil {
		return r.tracer.StartSpan(name, tracing.WithParent(cfg.parent))
	}
	return r.tracer.StartSpan(name)
}

func (r *Reporter) nextID() string {
	return fmt.Sprintf("activity-%d", r.seq.Add(1))
}

// TrackCLI forwards a lifecycle event to telemetry, tagging nothing on.
func (r *Reporter) TrackCLI(event string, fields telemetry.Fields) {
	r.telemetry.TrackCLI(event, fields)
}

// SlogHandler returns a slog.Handler that surfaces log records through the
// reporter's output. Components whose records narrate user-visible work can
// log through it instead of the diagnostic channel.
func (r *Reporter) SlogHandler() slog.Handler {
	return NewHandler(r)
}
