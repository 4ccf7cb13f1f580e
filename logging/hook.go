package logging

import (
	"log/slog"
)

// LoggerHook creates activity-specific loggers by wrapping a base logger.
// The pipeline runner stays generic; hook implementations decide whether
// activity logs are captured, tagged, or left alone.
type LoggerHook interface {
	// LoggerForActivity wraps the base logger to create a logger for one
	// named activity.
	LoggerForActivity(baseLogger *slog.Logger, activity string) *slog.Logger
}

// CapturingLoggerHook creates loggers that capture records via
// CapturingHandler.
type CapturingLoggerHook struct {
	collector *Collector
}

// NewCapturingLoggerHook creates a hook that captures all activity logs into
// the collector.
func NewCapturingLoggerHook(collector *Collector) LoggerHook {
	return &CapturingLoggerHook{
		collector: collector,
	}
}

// LoggerForActivity wraps the base logger with a CapturingHandler that tags
// records with the activity name.
func (p *CapturingLoggerHook) LoggerForActivity(baseLogger *slog.Logger, activity string) *slog.Logger {
	return slog.New(NewCapturingHandler(
		baseLogger.Handler(),
		p.collector,
		activity,
	))
}
