package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sitewright/sitewright/render"
	"github.com/sitewright/sitewright/tracing"
)

func newTestProgress(mem *render.Memory, rec *tracing.Recorder, total int64) *Progress {
	return NewProgress(ProgressOptions{
		ID:       "pages",
		Text:     "rendering pages",
		Total:    total,
		Renderer: mem,
		Span:     rec.StartSpan("rendering pages"),
	})
}

func TestProgressLifecycle(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 3)

	p.Start()
	p.Tick()
	p.Tick()
	p.Tick()
	p.Done()

	assert.Equal(t, int64(3), p.Current())

	events := mem.Events()
	require.Len(t, events, 5)
	assert.Equal(t, "activity.start", events[0].Verb)
	assert.Equal(t, "1/3", events[1].Detail)
	assert.Equal(t, "2/3", events[2].Detail)
	assert.Equal(t, "3/3", events[3].Detail)
	assert.Equal(t, "activity.done", events[4].Verb)

	assert.Equal(t, 1, rec.FinishCount("rendering pages"))
}

func TestProgressStartIsIdempotent(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 5)

	p.Start()
	p.Start()
	p.Start()

	assert.Len(t, mem.ByVerb("activity.start"), 1)
}

func TestProgressStartKeepsFirstTimestamp(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := NewProgress(ProgressOptions{
		ID:       "pages",
		Text:     "rendering pages",
		Total:    5,
		Renderer: mem,
		Span:     rec.StartSpan("rendering pages"),
		Now:      testClock(base, time.Second),
	})

	p.Start()
	first := p.StartedAt()
	require.False(t, first.IsZero())

	p.Start()
	p.Start()
	assert.Equal(t, first, p.StartedAt(), "repeated Start must keep the first timestamp")
}

func TestProgressSetStatus(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 3)

	p.SetStatus("estimating") // buffered until Start announces the activity
	p.Start()
	p.SetStatus("writing output")

	statuses := mem.ByVerb("activity.status")
	require.Len(t, statuses, 2)
	assert.Equal(t, "estimating", statuses[0].Detail)
	assert.Equal(t, "writing output", statuses[1].Detail)
}

func TestProgressTickHasNoUpperBound(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 2)

	p.Start()
	p.Tick()
	p.Tick()
	p.Tick() // past the total

	assert.Equal(t, int64(3), p.Current())
	assert.Equal(t, int64(2), p.Total())

	events := mem.ByVerb("activity.progress")
	require.Len(t, events, 3)
	assert.Equal(t, "3/2", events[2].Detail)
}

func TestProgressSetTotal(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 0)

	p.Start()
	p.Tick()
	p.SetTotal(10)

	assert.Equal(t, int64(10), p.Total())

	events := mem.ByVerb("activity.progress")
	require.Len(t, events, 2)
	assert.Equal(t, "1/10", events[1].Detail)
}

func TestProgressDoneFinishesSpanOnce(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 1)

	p.Start()
	p.Tick()
	p.Done()
	p.Done()
	p.Done()

	assert.Equal(t, 1, rec.FinishCount("rendering pages"))
	assert.Len(t, mem.ByVerb("activity.done"), 1)
}

func TestProgressReportsNoDuration(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 1)

	p.Start()
	p.Tick()
	p.Done()

	done := mem.ByVerb("activity.done")
	require.Len(t, done, 1)
	assert.Equal(t, "0s", done[0].Detail)
}

func TestProgressTicksBeforeStartAreCounted(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 5)

	p.Tick()
	p.Tick()
	p.Start()

	assert.Equal(t, int64(2), p.Current())

	// Start announces with the pre-start count already applied.
	events := mem.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "activity.start", events[0].Verb)
	assert.Equal(t, "2/5", events[1].Detail)
}

func TestProgressStartValue(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()

	p := NewProgress(ProgressOptions{
		ID:       "pages",
		Text:     "rendering pages",
		Total:    10,
		Start:    4,
		Renderer: mem,
		Span:     rec.StartSpan("rendering pages"),
	})
	p.Start()
	p.Tick()

	assert.Equal(t, int64(5), p.Current())
}

func TestProgressIgnoresCallsAfterDone(t *testing.T) {
	mem := render.NewMemory()
	rec := tracing.NewRecorder()
	p := newTestProgress(mem, rec, 2)

	p.Start()
	p.Done()

	before := len(mem.Events())
	p.Tick()
	p.SetTotal(99)
	p.SetStatus("late")
	p.Start()

	assert.Len(t, mem.Events(), before)
	assert.Equal(t, int64(0), p.Current())
}

// The tick count always equals the number of Tick calls, whatever the mix of
// early starts, repeated starts, and total revisions.
func TestProgressCountMatchesTicks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mem := render.NewMemory()
		rec := tracing.NewRecorder()
		p := newTestProgress(mem, rec, int64(rapid.IntRange(0, 10).Draw(rt, "total")))

		ticks := 0
		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.SampledFrom([]string{"tick", "start", "settotal"}).Draw(rt, fmt.Sprintf("op_%d", i)) {
			case "tick":
				p.Tick()
				ticks++
			case "start":
				p.Start()
			case "settotal":
				p.SetTotal(int64(rapid.IntRange(0, 50).Draw(rt, fmt.Sprintf("newtotal_%d", i))))
			}
		}

		if p.Current() != int64(ticks) {
			rt.Fatalf("current = %d after %d ticks", p.Current(), ticks)
		}
	})
}
