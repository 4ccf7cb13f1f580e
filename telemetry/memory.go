package telemetry

import (
	"sync"

	"github.com/sitewright/sitewright/structerr"
)

// ErrorReport is one TrackError call captured by a Memory client.
type ErrorReport struct {
	Kind  string
	Error *structerr.Error
}

// CLIReport is one TrackCLI call captured by a Memory client.
type CLIReport struct {
	Event  string
	Fields Fields
}

// Memory is a Client that records calls for inspection in tests.
type Memory struct {
	mu     sync.Mutex
	errors []ErrorReport
	clis   []CLIReport
}

// NewMemory returns an empty in-memory client.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) TrackError(kind string, e *structerr.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, ErrorReport{Kind: kind, Error: e})
}

func (m *Memory) TrackCLI(event string, fields Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clis = append(m.clis, CLIReport{Event: event, Fields: fields})
}

// Errors returns every TrackError call seen so far, in order.
func (m *Memory) Errors() []ErrorReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ErrorReport(nil), m.errors...)
}

// CLIEvents returns every TrackCLI call seen so far, in order.
func (m *Memory) CLIEvents() []CLIReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CLIReport(nil), m.clis...)
}
