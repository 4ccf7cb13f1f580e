package tracing

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SpanData is the exported form of a recorded span. Finished spans carry an
// EndedAt; a span exported mid-flight does not.
type SpanData struct {
	SpanID   string         `json:"span_id"`
	ParentID string         `json:"parent_span_id,omitempty"`
	Name     string         `json:"name"`
	StartAt  time.Time      `json:"started_at"`
	EndedAt  *time.Time     `json:"ended_at,omitempty"`
	Tags     map[string]any `json:"tags,omitempty"`
}

// Recorder is a Tracer that keeps spans in memory. It backs the local trace
// file written at the end of a build and doubles as the span sink in tests.
type Recorder struct {
	mu    sync.RWMutex
	spans []*recordedSpan
	now   func() time.Time
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// StartSpan opens a recorded span. The span is registered immediately so
// unfinished spans still appear in exports.
func (r *Recorder) StartSpan(name string, opts ...SpanOption) Span {
	cfg := applyOptions(opts)

	s := &recordedSpan{
		id:      uuid.NewString(),
		name:    name,
		startAt: r.now(),
		tags:    cfg.Tags,
		now:     r.now,
	}
	if parent, ok := cfg.Parent.(*recordedSpan); ok && parent != nil {
		s.parentID = parent.id
	}

	r.mu.Lock()
	r.spans = append(r.spans, s)
	r.mu.Unlock()
	return s
}

// Spans returns a snapshot of every span started so far, in start order.
func (r *Recorder) Spans() []SpanData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SpanData, 0, len(r.spans))
	for _, s := range r.spans {
		out = append(out, s.data())
	}
	return out
}

// FinishCount reports how many times Finish has been called across all spans
// with the given name. Multiple finishes of one span are counted separately.
func (r *Recorder) FinishCount(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, s := range r.spans {
		if s.name == name {
			total += s.finishCalls()
		}
	}
	return total
}

// Export writes every recorded span as one JSON object per line.
func (r *Recorder) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, data := range r.Spans() {
		if err := enc.Encode(data); err != nil {
			return err
		}
	}
	return nil
}

type recordedSpan struct {
	mu       sync.Mutex
	id       string
	parentID string
	name     string
	startAt  time.Time
	endedAt  *time.Time
	tags     map[string]any
	finishes int
	now      func() time.Time
}

func (s *recordedSpan) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finishes++
	if s.endedAt == nil {
		t := s.now()
		s.endedAt = &t
	}
}

func (s *recordedSpan) SetTag(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.endedAt != nil {
		return
	}
	if s.tags == nil {
		s.tags = make(map[string]any)
	}
	s.tags[key] = value
}

func (s *recordedSpan) finishCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishes
}

func (s *recordedSpan) data() SpanData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := SpanData{
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		StartAt:  s.startAt,
		EndedAt:  s.endedAt,
	}
	if len(s.tags) > 0 {
		data.Tags = make(map[string]any, len(s.tags))
		for k, v := range s.tags {
			data.Tags[k] = v
		}
	}
	return data
}
