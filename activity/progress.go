package activity

import (
	"sync"
	"time"

	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/tracing"
)

// Progress tracks one determinate activity: ticks counting toward a total.
type Progress struct {
	mu       sync.Mutex
	id       string
	text     string
	renderer render.Renderer
	span     tracing.Span
	now      func() time.Time

	handle    render.Activity
	pending   string
	startedAt time.Time
	current   int64
	total     int64
	done      bool
}

// ProgressOptions configures a Progress. Renderer and Span must be non-nil;
// the reporter always supplies them.
type ProgressOptions struct {
	// ID uniquely identifies the activity for status tracking.
	ID string
	// Text is the activity label shown to the user.
	Text string
	// Total is the expected tick count. It may be zero and may be revised
	// later with SetTotal.
	Total int64
	// Start value for the counter, usually zero.
	Start int64
	// Renderer draws the activity.
	Renderer render.Renderer
	// Span is the already-started trace span covering this activity. The
	// tracker finishes it exactly once, on Done.
	Span tracing.Span
	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewProgress creates a progress tracker in the not-started state.
func NewProgress(opts ProgressOptions) *Progress {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Progress{
		id:       opts.ID,
		text:     opts.Text,
		renderer: opts.Renderer,
		span:     opts.Span,
		now:      now,
		current:  opts.Start,
		total:    opts.Total,
	}
}

// Start announces the activity and records the start timestamp. Unlike
// Timer.Start, it is idempotent: repeated calls keep the first timestamp,
// since ticks may already be counting against it.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done || p.handle != nil {
		return
	}
	p.startedAt = p.now()
	p.handle = p.renderer.StartActivity(render.ActivityInfo{
		ID:    p.id,
		Text:  p.text,
		Kind:  render.KindProgress,
		Total: p.total,
	})
	if p.pending != "" {
		p.handle.SetStatus(p.pending)
		p.pending = ""
	}
	if p.current > 0 {
		p.handle.SetProgress(p.current, p.total)
	}
}

// SetStatus replaces the status text shown next to the label. A status set
// before Start is buffered and shown once the activity is announced.
func (p *Progress) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	if p.handle == nil {
		p.pending = status
		return
	}
	p.handle.SetStatus(status)
}

// Tick increments the counter by one. There is no upper bound check: ticks
// past the total are counted and displayed as-is.
func (p *Progress) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	p.current++
	if p.handle != nil {
		p.handle.SetProgress(p.current, p.total)
	}
}

// SetTotal revises the expected tick count and pushes the update to the
// renderer. Totals routinely arrive late, after a first estimating pass.
func (p *Progress) SetTotal(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	p.total = total
	if p.handle != nil {
		p.handle.SetProgress(p.current, p.total)
	}
}

// Done retires the activity and finishes its span, exactly once. No
// duration is reported: progress activities are counted, not timed.
func (p *Progress) Done() {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	handle := p.handle
	p.mu.Unlock()

	if handle != nil {
		handle.Done(0)
	}
	p.span.Finish()
}

// StartedAt returns the recorded start time, or the zero time before Start.
func (p *Progress) StartedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startedAt
}

// Current returns the tick count so far.
func (p *Progress) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Total returns the current expected tick count.
func (p *Progress) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Span returns the trace span covering this activity.
func (p *Progress) Span() tracing.Span {
	return p.span
}

// Text returns the activity label.
func (p *Progress) Text() string {
	return p.text
}
