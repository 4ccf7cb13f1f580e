package logging

import (
	"context"
	"log/slog"
)

// CapturingHandler wraps an slog.Handler to capture log records while passing
// them through. Every record is stored in a Collector under one activity
// name, so the develop server can show per-activity logs without touching
// the diagnostic output stream.
type CapturingHandler struct {
	underlying slog.Handler
	collector  *Collector
	activity   string
	attrs      []slog.Attr // accumulated via WithAttrs
	groups     []string    // accumulated via WithGroup
}

// NewCapturingHandler creates a handler that captures logs to the collector
// while passing them through to the underlying handler.
func NewCapturingHandler(underlying slog.Handler, collector *Collector, activity string) *CapturingHandler {
	return &CapturingHandler{
		underlying: underlying,
		collector:  collector,
		activity:   activity,
	}
}

// Enabled always returns true so every level is captured, even ones the
// underlying handler filters. The underlying handler still applies its own
// level filter in Handle.
func (h *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// Handle captures the log record and then passes it to the underlying handler.
func (h *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := Entry{
		Time:       r.Time,
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: make(map[string]any, r.NumAttrs()+len(h.attrs)),
	}

	for _, attr := range h.attrs {
		entry.Attributes[attr.Key] = resolveValue(attr.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		entry.Attributes[a.Key] = resolveValue(a.Value)
		return true
	})

	h.collector.Add(h.activity, entry)

	return h.underlying.Handle(ctx, r)
}

// WithAttrs returns a new CapturingHandler with additional attributes.
// It must return a CapturingHandler, not the underlying handler, so that
// capturing survives .With() chains.
func (h *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &CapturingHandler{
		underlying: h.underlying.WithAttrs(attrs),
		collector:  h.collector,
		activity:   h.activity,
		attrs:      newAttrs,
		groups:     h.groups,
	}
}

// WithGroup returns a new CapturingHandler with a group name. Same rule as
// WithAttrs: the wrapper type must be preserved.
func (h *CapturingHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &CapturingHandler{
		underlying: h.underlying.WithGroup(name),
		collector:  h.collector,
		activity:   h.activity,
		attrs:      h.attrs,
		groups:     newGroups,
	}
}

// resolveValue converts a slog.Value to a JSON-serializable value. Errors
// become their message string.
func resolveValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	case slog.KindAny:
		anyVal := v.Any()
		if err, ok := anyVal.(error); ok {
			return err.Error()
		}
		return anyVal
	case slog.KindGroup:
		attrs := v.Group()
		group := make(map[string]any, len(attrs))
		for _, attr := range attrs {
			group[attr.Key] = resolveValue(attr.Value)
		}
		return group
	default:
		return v.Any()
	}
}
