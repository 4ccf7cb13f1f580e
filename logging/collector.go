package logging

import (
	"sync"
	"time"
)

// Entry represents a single log record with structured data.
type Entry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"` // "debug", "info", "warn", "error"
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes"`
}

// Collector provides thread-safe storage for logs grouped by activity name.
// The develop server serves its contents on /api/logs so a browser can show
// what each build activity logged.
type Collector struct {
	mu   sync.RWMutex
	logs map[string][]Entry // activity -> log entries
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		logs: make(map[string][]Entry),
	}
}

// Add appends a log entry for the named activity.
func (c *Collector) Add(activity string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logs[activity] = append(c.logs[activity], entry)
}

// Logs retrieves all log entries for one activity. The returned slice is a
// copy and safe to hold.
func (c *Collector) Logs(activity string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	logs, exists := c.logs[activity]
	if !exists {
		return nil
	}

	result := make([]Entry, len(logs))
	copy(result, logs)
	return result
}

// All returns every stored log grouped by activity. The map and slices are
// copies and safe to hold.
func (c *Collector) All() map[string][]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]Entry, len(c.logs))
	for activity, logs := range c.logs {
		logsCopy := make([]Entry, len(logs))
		copy(logsCopy, logs)
		result[activity] = logsCopy
	}

	return result
}

// Clear removes all stored logs. Develop mode calls this at the start of
// each rebuild.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logs = make(map[string][]Entry)
}
