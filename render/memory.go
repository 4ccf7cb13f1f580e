package render

import (
	"fmt"
	"sync"
	"time"
)

// Event is one rendered output captured by Memory.
type Event struct {
	// Verb is the renderer method that produced the event: "success",
	// "info", "warn", "log", "verbose", "error", or for activities
	// "activity.start", "activity.status", "activity.progress",
	// "activity.done".
	Verb string
	// Text is the message or activity label.
	Text string
	// Detail carries the status text, "current/total" counts, or the
	// finished duration, depending on the verb.
	Detail string
}

// Memory is a Renderer that records everything instead of printing.
// Reporter and activity tests assert against its event list.
type Memory struct {
	mu      sync.Mutex
	events  []Event
	verbose bool
}

// NewMemory returns an empty recording renderer with verbose enabled, so
// tests see Verbose events unless they turn them off.
func NewMemory() *Memory {
	return &Memory{verbose: true}
}

func (m *Memory) record(verb, text, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Verb: verb, Text: text, Detail: detail})
}

// Events returns a copy of everything recorded so far, in order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// ByVerb returns recorded events matching one verb, in order.
func (m *Memory) ByVerb(verb string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Event
	for _, ev := range m.events {
		if ev.Verb == verb {
			out = append(out, ev)
		}
	}
	return out
}

func (m *Memory) Success(text string) { m.record("success", text, "") }
func (m *Memory) Info(text string)    { m.record("info", text, "") }
func (m *Memory) Warn(text string)    { m.record("warn", text, "") }
func (m *Memory) Log(text string)     { m.record("log", text, "") }
func (m *Memory) Error(text string)   { m.record("error", text, "") }

func (m *Memory) Verbose(text string) {
	m.mu.Lock()
	enabled := m.verbose
	m.mu.Unlock()
	if enabled {
		m.record("verbose", text, "")
	}
}

func (m *Memory) SetVerbose(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verbose = enabled
}

func (m *Memory) SetColors(bool) {}

// StartActivity records the start and returns a recording handle.
func (m *Memory) StartActivity(info ActivityInfo) Activity {
	m.record("activity.start", info.Text, info.Kind.String())
	return &memoryActivity{memory: m, info: info}
}

type memoryActivity struct {
	mu     sync.Mutex
	memory *Memory
	info   ActivityInfo
	done   bool
}

func (a *memoryActivity) SetStatus(status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return
	}
	a.memory.record("activity.status", a.info.Text, status)
}

func (a *memoryActivity) SetProgress(current, total int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return
	}
	a.memory.record("activity.progress", a.info.Text, fmt.Sprintf("%d/%d", current, total))
}

func (a *memoryActivity) Done(duration time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return
	}
	a.done = true
	a.memory.record("activity.done", a.info.Text, duration.String())
}
