// Package tracing defines the span contract build phases report into, plus a
// small in-process recorder for local trace capture.
//
// The tool only ever talks to the Tracer and Span interfaces. Whether spans
// end up in a real tracing backend or in a local JSON file is the
// implementation's business.
package tracing

// Tracer creates spans for named units of work.
type Tracer interface {
	// StartSpan opens a span for a named operation. The span is live until
	// Finish is called on it.
	StartSpan(name string, opts ...SpanOption) Span
}

// Span is one timed unit of work. Implementations must tolerate SetTag
// after Finish without panicking; such tags may be dropped.
type Span interface {
	// Finish marks the span as completed.
	Finish()

	// SetTag attaches metadata to the span.
	SetTag(key string, value any)
}

// SpanOption customizes a span at start time.
type SpanOption func(*SpanConfig)

// SpanConfig collects the options applied when a span starts.
type SpanConfig struct {
	Parent Span
	Tags   map[string]any
}

// WithParent links the new span underneath an existing one.
func WithParent(parent Span) SpanOption {
	return func(c *SpanConfig) {
		c.Parent = parent
	}
}

// WithTag attaches a tag at start time.
func WithTag(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Tags == nil {
			c.Tags = make(map[string]any)
		}
		c.Tags[key] = value
	}
}

func applyOptions(opts []SpanOption) SpanConfig {
	var cfg SpanConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NullTracer discards every span. It is the default when tracing is not
// configured.
type NullTracer struct{}

// StartSpan returns a span that does nothing.
func (NullTracer) StartSpan(string, ...SpanOption) Span {
	return nullSpan{}
}

type nullSpan struct{}

func (nullSpan) Finish()            {}
func (nullSpan) SetTag(string, any) {}
