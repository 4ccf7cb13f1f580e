// Package metrics provides Prometheus-compatible metrics for build runs.
//
// The package supports two modes of operation:
//   - Scrape mode (develop): metrics are registered with a Prometheus
//     registry and exposed on the develop server's /metrics endpoint
//   - Push mode (build): metrics are pushed to a VictoriaMetrics/Prometheus
//     remote write endpoint as the build produces them
//
// Activity durations, error counts, and rebuild counts all flow through the
// Registry interface so the reporter never knows which mode is active.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gauge is a metric that represents a single numerical value that can go up and down.
type Gauge interface {
	// Set sets the Gauge to the given value.
	Set(float64)
}

// Counter is a metric that represents a single monotonically increasing counter.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()
	// Add adds the given value to the counter. It panics if the value is negative.
	Add(float64)
}

// GaugeVec is a Gauge with labels.
type GaugeVec interface {
	// With returns the Gauge for the given Labels.
	With(prometheus.Labels) Gauge
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	// With returns the Counter for the given Labels.
	With(prometheus.Labels) Counter
}

// Registry creates and registers metrics.
// Implementations handle the differences between push and scrape modes.
type Registry interface {
	// NewGauge creates and registers a new Gauge.
	NewGauge(opts prometheus.GaugeOpts) (Gauge, error)

	// NewGaugeVec creates and registers a new GaugeVec.
	NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error)

	// NewCounter creates and registers a new Counter.
	NewCounter(opts prometheus.CounterOpts) (Counter, error)

	// NewCounterVec creates and registers a new CounterVec.
	NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error)
}

// NullRegistry is a Registry whose metrics go nowhere. It is used when
// monitoring is not configured, so callers can record unconditionally.
type NullRegistry struct{}

func (NullRegistry) NewGauge(prometheus.GaugeOpts) (Gauge, error) {
	return nullGauge{}, nil
}

func (NullRegistry) NewGaugeVec(prometheus.GaugeOpts, []string) (GaugeVec, error) {
	return nullGaugeVec{}, nil
}

func (NullRegistry) NewCounter(prometheus.CounterOpts) (Counter, error) {
	return nullCounter{}, nil
}

func (NullRegistry) NewCounterVec(prometheus.CounterOpts, []string) (CounterVec, error) {
	return nullCounterVec{}, nil
}

type nullGauge struct{}

func (nullGauge) Set(float64) {}

type nullCounter struct{}

func (nullCounter) Inc()        {}
func (nullCounter) Add(float64) {}

type nullGaugeVec struct{}

func (nullGaugeVec) With(prometheus.Labels) Gauge { return nullGauge{} }

type nullCounterVec struct{}

func (nullCounterVec) With(prometheus.Labels) Counter { return nullCounter{} }
