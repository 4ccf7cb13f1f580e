package activity

import (
	"sync"
	"time"

	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/tracing"
)

// Timer tracks one indeterminate activity: a label, a status line, and a
// wall-time measurement.
type Timer struct {
	mu         sync.Mutex
	id         string
	text       string
	renderer   render.Renderer
	span       tracing.Span
	onDuration func(text string, elapsed time.Duration)
	now        func() time.Time

	handle    render.Activity
	pending   string
	startedAt time.Time
	ended     bool
}

// TimerOptions configures a Timer. Renderer and Span must be non-nil; the
// reporter always supplies them.
type TimerOptions struct {
	// ID uniquely identifies the activity for status tracking.
	ID string
	// Text is the activity label shown to the user.
	Text string
	// Renderer draws the activity.
	Renderer render.Renderer
	// Span is the already-started trace span covering this activity. The
	// timer finishes it exactly once, on End.
	Span tracing.Span
	// OnDuration receives the measured duration exactly once, on End.
	OnDuration func(text string, elapsed time.Duration)
	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewTimer creates a timer in the not-started state.
func NewTimer(opts TimerOptions) *Timer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Timer{
		id:         opts.ID,
		text:       opts.Text,
		renderer:   opts.Renderer,
		span:       opts.Span,
		onDuration: opts.OnDuration,
		now:        now,
	}
}

// Start begins timing. Calling Start again resets the start timestamp
// without re-announcing the activity; the final duration covers the last
// Start only.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return
	}

	t.startedAt = t.now()
	if t.handle == nil {
		t.handle = t.renderer.StartActivity(render.ActivityInfo{
			ID:   t.id,
			Text: t.text,
			Kind: render.KindSpinner,
		})
		if t.pending != "" {
			t.handle.SetStatus(t.pending)
			t.pending = ""
		}
	}
}

// SetStatus replaces the status text shown next to the label. A status set
// before Start is buffered and shown once the activity is announced.
func (t *Timer) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return
	}
	if t.handle == nil {
		t.pending = status
		return
	}
	t.handle.SetStatus(status)
}

// End stops the activity: it computes the elapsed time, reports it through
// OnDuration, finishes the span, and retires the rendered line. Only the
// first End does anything. An End without a Start measures from the zero
// time and reports the resulting nonsense duration rather than guessing.
func (t *Timer) End() {
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return
	}
	t.ended = true

	elapsed := t.now().Sub(t.startedAt)
	handle := t.handle
	t.mu.Unlock()

	if t.onDuration != nil {
		t.onDuration(t.text, elapsed)
	}
	if handle != nil {
		handle.Done(elapsed)
	}
	t.span.Finish()
}

// Span returns the trace span covering this activity, for callers that want
// to parent further spans under it.
func (t *Timer) Span() tracing.Span {
	return t.span
}

// Text returns the activity label.
func (t *Timer) Text() string {
	return t.text
}
