package render

import (
	"sync"
	"time"
)

// State is the lifecycle position of a tracked activity.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
)

// Status is the live view of one activity. The develop server serializes
// these on /api/status.
type Status struct {
	Text       string    `json:"text"`
	Kind       Kind      `json:"-"`
	KindName   string    `json:"kind"`
	State      State     `json:"state"`
	Detail     string    `json:"detail,omitempty"`
	Current    int64     `json:"current,omitempty"`
	Total      int64     `json:"total,omitempty"`
	Started    time.Time `json:"started"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// Board stores the current status of every activity, keyed by activity ID.
// It is the shared storage console activities write to and the develop
// server reads from.
type Board struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		statuses: make(map[string]Status),
	}
}

// Set replaces the status for an activity ID.
func (b *Board) Set(id string, status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status.KindName = status.Kind.String()
	b.statuses[id] = status
}

// Update mutates the stored status for an activity ID in place. Unknown IDs
// are ignored.
func (b *Board) Update(id string, fn func(*Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, ok := b.statuses[id]
	if !ok {
		return
	}
	fn(&status)
	status.KindName = status.Kind.String()
	b.statuses[id] = status
}

// Get returns the status for an activity ID.
func (b *Board) Get(id string) (Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	status, ok := b.statuses[id]
	return status, ok
}

// All returns a copy of every tracked status.
func (b *Board) All() map[string]Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]Status, len(b.statuses))
	for k, v := range b.statuses {
		out[k] = v
	}
	return out
}

// Clear removes every tracked status. Develop mode calls this between
// rebuilds.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = make(map[string]Status)
}
