// Package schedule provides cron-based scheduling for recurring work.
//
// Develop mode uses a Trigger to push metrics on a fixed schedule while the
// server runs. The Trigger wraps a job function and executes it according
// to a cron expression; it is started once and runs until the context is
// cancelled.
//
// Example usage:
//
//	trigger, err := schedule.NewTrigger("@every 30s", pushMetrics, logger)
//	if err != nil {
//	    return err
//	}
//	trigger.Start(ctx) // Returns immediately, runs in background
//	<-ctx.Done()       // Wait for shutdown signal
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSpec is returned when the cron specification cannot be parsed.
var ErrInvalidSpec = errors.New("invalid cron spec")

// Trigger executes a job according to a cron schedule.
type Trigger struct {
	spec     string
	schedule cron.Schedule
	job      func() error
	logger   *slog.Logger
}

// NewTrigger creates a Trigger from a cron specification. Both the standard
// 5-field format and descriptors like "@every 30s" or "@hourly" are
// accepted. Returns ErrInvalidSpec if the specification cannot be parsed.
func NewTrigger(spec string, job func() error, logger *slog.Logger) (*Trigger, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidSpec, err)
	}

	return &Trigger{
		spec:     spec,
		schedule: schedule,
		job:      job,
		logger:   logger,
	}, nil
}

// Start launches a goroutine that runs the job on schedule. Returns
// immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled run time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(time.Now())
		waitDuration := time.Until(nextRun)

		t.logger.Debug("waiting for next scheduled run",
			"spec", t.spec,
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		select {
		case <-ctx.Done():
			t.logger.Debug("schedule trigger shutting down")
			return
		case <-time.After(waitDuration):
			t.executeRun()
		}
	}
}

func (t *Trigger) executeRun() {
	if err := t.job(); err != nil {
		t.logger.Warn("scheduled run completed with error", "error", err)
	} else {
		t.logger.Debug("scheduled run completed")
	}
}
