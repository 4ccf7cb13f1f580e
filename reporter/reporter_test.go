package reporter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewright/sitewright/metrics"
	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/structerr"
	"github.com/sitewright/sitewright/telemetry"
	"github.com/sitewright/sitewright/tracing"
)

// harness wires a Reporter to recording collaborators. Env and exit are
// captured through closures so tests control both.
type harness struct {
	reporter  *Reporter
	renderer  *render.Memory
	telemetry *telemetry.Memory
	tracer    *tracing.Recorder
	metrics   *fakeRegistry

	mu    sync.Mutex
	env   map[string]string
	exits []int
}

func newTestReporter(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		renderer:  render.NewMemory(),
		telemetry: telemetry.NewMemory(),
		tracer:    tracing.NewRecorder(),
		metrics:   newFakeRegistry(),
		env:       make(map[string]string),
	}

	clock := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	r, err := New(Options{
		Renderer:  h.renderer,
		Telemetry: h.telemetry,
		Tracer:    h.tracer,
		Metrics:   h.metrics,
		LookupEnv: func(key string) (string, bool) {
			h.mu.Lock()
			defer h.mu.Unlock()
			v, ok := h.env[key]
			return v, ok
		},
		Exit: func(code int) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.exits = append(h.exits, code)
		},
		Now: func() time.Time {
			h.mu.Lock()
			defer h.mu.Unlock()
			now := clock
			clock = clock.Add(time.Second)
			return now
		},
	})
	require.NoError(t, err)

	h.reporter = r
	return h
}

func (h *harness) setEnv(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.env[key] = value
}

func (h *harness) exitCodes() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.exits...)
}

func TestNewWithDefaults(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestReporterVerbs(t *testing.T) {
	h := newTestReporter(t)
	r := h.reporter

	r.Success("site built")
	r.Infof("rendered %d pages", 12)
	r.Warn("draft pages skipped")
	r.Log("output written to public/")
	r.Verbose("template cache warm")

	require.Equal(t, []render.Event{
		{Verb: "success", Text: "site built"},
		{Verb: "info", Text: "rendered 12 pages"},
		{Verb: "warn", Text: "draft pages skipped"},
		{Verb: "log", Text: "output written to public/"},
		{Verb: "verbose", Text: "template cache warm"},
	}, h.renderer.Events())
}

func TestReporterSetVerbose(t *testing.T) {
	h := newTestReporter(t)

	h.reporter.SetVerbose(false)
	h.reporter.Verbose("hidden")
	h.reporter.SetVerbose(true)
	h.reporter.Verbose("shown")

	events := h.renderer.ByVerb("verbose")
	require.Len(t, events, 1)
	assert.Equal(t, "shown", events[0].Text)
}

func TestReporterError(t *testing.T) {
	h := newTestReporter(t)
	h.reporter.SetNoColor(true)

	errs := h.reporter.Error(structerr.Wrap("failed to render page",
		errors.New("template: missing partial")))

	require.Len(t, errs, 1)
	assert.Equal(t, "failed to render page template: missing partial",
		errs[0].Context.SourceMessage)

	rendered := h.renderer.ByVerb("error")
	require.Len(t, rendered, 1)
	assert.Equal(t, "ERROR failed to render page template: missing partial",
		rendered[0].Text)

	reports := h.telemetry.Errors()
	require.Len(t, reports, 1)
	assert.Equal(t, KindError, reports[0].Kind)

	assert.Empty(t, h.exitCodes())
	assert.Equal(t, 1.0, h.metrics.count("reporter_errors_total{kind=error.generic}"))
}

func TestReporterGroupReportsEachError(t *testing.T) {
	h := newTestReporter(t)

	errs := h.reporter.Error(structerr.Group("failed to copy asset",
		errors.New("img/logo.svg: permission denied"),
		errors.New("fonts/mono.woff2: no such file")))

	require.Len(t, errs, 2)
	assert.Len(t, h.renderer.ByVerb("error"), 2)
	assert.Len(t, h.telemetry.Errors(), 2)
	assert.Equal(t, 2.0, h.metrics.count("reporter_errors_total{kind=error.generic}"))
}

func TestReporterPanicAlwaysExits(t *testing.T) {
	for _, command := range []string{"", "build", "develop"} {
		name := command
		if name == "" {
			name = "unset"
		}
		t.Run(name, func(t *testing.T) {
			h := newTestReporter(t)
			if command != "" {
				h.setEnv(ExecutingCommandEnvVar, command)
			}

			h.reporter.Panic(structerr.Message("config file is unreadable"))

			assert.Equal(t, []int{1}, h.exitCodes())
			reports := h.telemetry.Errors()
			require.Len(t, reports, 1)
			assert.Equal(t, KindGeneralPanic, reports[0].Kind)
		})
	}
}

func TestReporterPanicOnBuild(t *testing.T) {
	cases := []struct {
		name     string
		command  string
		wantExit bool
	}{
		{name: "build exits", command: "build", wantExit: true},
		{name: "develop keeps running", command: "develop", wantExit: false},
		{name: "unset keeps running", command: "", wantExit: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestReporter(t)
			if tc.command != "" {
				h.setEnv(ExecutingCommandEnvVar, tc.command)
			}

			errs := h.reporter.PanicOnBuild(structerr.Message("plugin crashed"))

			require.Len(t, errs, 1)
			if tc.wantExit {
				assert.Equal(t, []int{1}, h.exitCodes())
			} else {
				assert.Empty(t, h.exitCodes())
			}

			reports := h.telemetry.Errors()
			require.Len(t, reports, 1)
			assert.Equal(t, KindBuildPanic, reports[0].Kind)
		})
	}
}

func TestReporterPanicOnBuildReadsCommandAtCallTime(t *testing.T) {
	h := newTestReporter(t)

	h.reporter.PanicOnBuild(structerr.Message("first failure"))
	assert.Empty(t, h.exitCodes())

	h.setEnv(ExecutingCommandEnvVar, BuildCommand)
	h.reporter.PanicOnBuild(structerr.Message("second failure"))
	assert.Equal(t, []int{1}, h.exitCodes())
}

func TestReporterActivityDuration(t *testing.T) {
	h := newTestReporter(t)

	timer := h.reporter.CreateActivity("building schema")
	timer.Start()
	timer.End()
	timer.End()

	clis := h.telemetry.CLIEvents()
	require.Len(t, clis, 1)
	assert.Equal(t, "activity.duration", clis[0].Event)
	assert.Equal(t, "building schema", clis[0].Fields["name"])
	assert.Equal(t, int64(1000), clis[0].Fields["ms"])

	value, ok := h.metrics.gauge("activity_duration_ms{activity=building schema}")
	require.True(t, ok)
	assert.Equal(t, 1000.0, value)

	assert.Equal(t, 1, h.tracer.FinishCount("building schema"))

	done := h.renderer.ByVerb("activity.done")
	require.Len(t, done, 1)
	assert.Equal(t, "1s", done[0].Detail)
}

func TestReporterProgressReportsNoDuration(t *testing.T) {
	h := newTestReporter(t)

	p := h.reporter.CreateProgress("rendering pages", 3)
	p.Start()
	p.Tick()
	p.Tick()
	p.Tick()
	p.Done()

	assert.Empty(t, h.telemetry.CLIEvents())
	assert.Equal(t, 0, h.metrics.gaugeWrites())
	assert.Equal(t, 1, h.tracer.FinishCount("rendering pages"))

	done := h.renderer.ByVerb("activity.done")
	require.Len(t, done, 1)
	assert.Equal(t, "0s", done[0].Detail)
}

func TestReporterActivityParentSpan(t *testing.T) {
	h := newTestReporter(t)

	parent := h.tracer.StartSpan("build")
	timer := h.reporter.CreateActivity("loading config", WithParent(parent))
	timer.Start()
	timer.End()
	parent.Finish()

	spans := h.tracer.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, "build", spans[0].Name)
	assert.Equal(t, "loading config", spans[1].Name)
	assert.Equal(t, spans[0].SpanID, spans[1].ParentID)
}

func TestReporterSetNoColor(t *testing.T) {
	h := newTestReporter(t)
	h.reporter.SetNoColor(true)

	h.reporter.Error(structerr.Message("boom"))

	events := h.renderer.ByVerb("error")
	require.Len(t, events, 1)
	assert.Equal(t, "ERROR boom", events[0].Text)
	assert.NotContains(t, events[0].Text, "\x1b[")
}

// fakeRegistry records metric writes keyed by name and sorted labels.
type fakeRegistry struct {
	mu     sync.Mutex
	gauges map[string]float64
	counts map[string]float64
	writes int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		gauges: make(map[string]float64),
		counts: make(map[string]float64),
	}
}

func (f *fakeRegistry) NewGauge(opts prometheus.GaugeOpts) (metrics.Gauge, error) {
	return &fakeGauge{reg: f, key: opts.Name}, nil
}

func (f *fakeRegistry) NewGaugeVec(opts prometheus.GaugeOpts, _ []string) (metrics.GaugeVec, error) {
	return &fakeGaugeVec{reg: f, name: opts.Name}, nil
}

func (f *fakeRegistry) NewCounter(opts prometheus.CounterOpts) (metrics.Counter, error) {
	return &fakeCounter{reg: f, key: opts.Name}, nil
}

func (f *fakeRegistry) NewCounterVec(opts prometheus.CounterOpts, _ []string) (metrics.CounterVec, error) {
	return &fakeCounterVec{reg: f, name: opts.Name}, nil
}

func (f *fakeRegistry) gauge(key string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.gauges[key]
	return v, ok
}

func (f *fakeRegistry) gaugeWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeRegistry) count(key string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

func labelKey(name string, labels prometheus.Labels) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, labels[k]))
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

type fakeGauge struct {
	reg *fakeRegistry
	key string
}

func (g *fakeGauge) Set(v float64) {
	g.reg.mu.Lock()
	defer g.reg.mu.Unlock()
	g.reg.gauges[g.key] = v
	g.reg.writes++
}

type fakeGaugeVec struct {
	reg  *fakeRegistry
	name string
}

func (v *fakeGaugeVec) With(labels prometheus.Labels) metrics.Gauge {
	return &fakeGauge{reg: v.reg, key: labelKey(v.name, labels)}
}

type fakeCounter struct {
	reg *fakeRegistry
	key string
}

func (c *fakeCounter) Inc() { c.Add(1) }

func (c *fakeCounter) Add(v float64) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	c.reg.counts[c.key] += v
}

type fakeCounterVec struct {
	reg  *fakeRegistry
	name string
}

func (v *fakeCounterVec) With(labels prometheus.Labels) metrics.Counter {
	return &fakeCounter{reg: v.reg, key: labelKey(v.name, labels)}
}
