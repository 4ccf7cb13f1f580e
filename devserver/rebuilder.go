package devserver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sitewright/sitewright/metrics"
)

// Rebuilder serializes builds triggered by the watcher and tracks their
// state for the status endpoint. Overlapping triggers queue behind the
// running build; the watcher's debounce keeps the queue short.
type Rebuilder struct {
	build   func(ctx context.Context) error
	logger  *slog.Logger
	counter metrics.Counter
	next    func() *time.Time

	runMu sync.Mutex

	mu        sync.Mutex
	building  bool
	rebuilds  int64
	lastBuild *time.Time
	lastError string
}

// RebuilderOptions configures a Rebuilder.
type RebuilderOptions struct {
	// Build runs one full build. Required.
	Build func(ctx context.Context) error

	// Logger receives rebuild diagnostics.
	Logger *slog.Logger

	// Counter, when set, is incremented once per completed rebuild.
	Counter metrics.Counter

	// NextPush reports the next scheduled metrics push, if any.
	NextPush func() *time.Time
}

// NewRebuilder creates a Rebuilder.
func NewRebuilder(opts RebuilderOptions) *Rebuilder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{
		build:   opts.Build,
		logger:  logger,
		counter: opts.Counter,
		next:    opts.NextPush,
	}
}

// Rebuild runs one build to completion. Calls are serialized; the build
// error is recorded for the status endpoint, not returned, because the
// develop loop keeps running either way.
func (r *Rebuilder) Rebuild(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	r.mu.Lock()
	r.building = true
	r.mu.Unlock()

	start := time.Now()
	err := r.build(ctx)
	finished := time.Now()

	r.mu.Lock()
	r.building = false
	r.rebuilds++
	r.lastBuild = &finished
	if err != nil {
		r.lastError = err.Error()
	} else {
		r.lastError = ""
	}
	r.mu.Unlock()

	if r.counter != nil {
		r.counter.Inc()
	}

	if err != nil {
		r.logger.Warn("rebuild failed", "error", err, "took", finished.Sub(start))
	} else {
		r.logger.Info("rebuild finished", "took", finished.Sub(start))
	}
}

// BuildState implements StatusProvider.
func (r *Rebuilder) BuildState() BuildState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return BuildState{
		Building:  r.building,
		Rebuilds:  r.rebuilds,
		LastBuild: r.lastBuild,
		LastError: r.lastError,
	}
}

// NextPush implements StatusProvider.
func (r *Rebuilder) NextPush() *time.Time {
	if r.next == nil {
		return nil
	}
	return r.next()
}
