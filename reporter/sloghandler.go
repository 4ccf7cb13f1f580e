package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Handler adapts a Reporter into a slog.Handler, so packages that only know
// log/slog surface their records through the reporter's output channels.
// Debug records map to Verbose, Info to Info, Warn to Warn, and Error to a
// plain error line. Records never reach telemetry; the bridge carries logs,
// not error reports.
type Handler struct {
	reporter *Reporter
	attrs    []slog.Attr
	groups   []string
}

var _ slog.Handler = &Handler{}

// NewHandler creates a slog handler backed by the reporter.
func NewHandler(r *Reporter) *Handler {
	return &Handler{reporter: r}
}

// Enabled reports true for every level. The renderer decides whether
// verbose records are shown.
func (h *Handler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle formats the record and routes it by level.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	text := h.format(record)
	switch {
	case record.Level >= slog.LevelError:
		h.reporter.renderer.Error(text)
	case record.Level >= slog.LevelWarn:
		h.reporter.Warn(text)
	case record.Level >= slog.LevelInfo:
		h.reporter.Info(text)
	default:
		h.reporter.Verbose(text)
	}
	return nil
}

// WithAttrs returns a handler that includes the attributes in every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	for _, attr := range attrs {
		combined = append(combined, h.qualify(attr))
	}
	return &Handler{
		reporter: h.reporter,
		attrs:    combined,
		groups:   h.groups,
	}
}

// WithGroup returns a handler that prefixes subsequent attribute names with
// the group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &Handler{
		reporter: h.reporter,
		attrs:    h.attrs,
		groups:   groups,
	}
}

func (h *Handler) qualify(attr slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return attr
	}
	attr.Key = strings.Join(h.groups, ".") + "." + attr.Key
	return attr
}

func (h *Handler) format(record slog.Record) string {
	var b strings.Builder
	b.WriteString(record.Message)
	write := func(attr slog.Attr) {
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString("=")
		b.WriteString(fmt.Sprintf("%v", attr.Value.Resolve().Any()))
	}
	for _, attr := range h.attrs {
		write(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		write(h.qualify(attr))
		return true
	})
	return b.String()
}
