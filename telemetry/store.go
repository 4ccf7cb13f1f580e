package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sitewright/sitewright/structerr"
)

// Event is one persisted telemetry record. Error events carry Kind and
// Message; CLI events carry Name and Fields.
type Event struct {
	Time    time.Time      `json:"time"`
	Session string         `json:"session_id"`
	Machine string         `json:"machine_id"`
	Version string         `json:"version,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Message string         `json:"msg,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Name    string         `json:"event,omitempty"`
	Fields  Fields         `json:"fields,omitempty"`
}

// Store is a Client that appends events to a JSONL file. One Store covers one
// process invocation: every event it writes shares a session ID.
type Store struct {
	mu      sync.Mutex
	file    *os.File
	session string
	machine string
	version string
	now     func() time.Time
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Path of the JSONL file events are appended to.
	Path string

	// Version stamped on every event, typically the build version.
	Version string
}

// NewStore opens (creating if needed) the event file and derives the session
// and machine identifiers.
func NewStore(opts StoreOptions) (*Store, error) {
	f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry store: %w", err)
	}

	return &Store{
		file:    f,
		session: uuid.NewString(),
		machine: machineID(),
		version: opts.Version,
		now:     time.Now,
	}, nil
}

// TrackError persists the error's kind, source message, and details. The
// native error chain is deliberately left out: stack text tends to embed
// local paths.
func (s *Store) TrackError(kind string, e *structerr.Error) {
	if e == nil {
		return
	}
	s.append(Event{
		Kind:    kind,
		Message: e.Context.SourceMessage,
		Details: e.Context.Details,
	})
}

// TrackCLI persists a named CLI event with its fields.
func (s *Store) TrackCLI(event string, fields Fields) {
	s.append(Event{
		Name:   event,
		Fields: fields,
	})
}

// SessionID returns the identifier shared by all events from this Store.
func (s *Store) SessionID() string {
	return s.session
}

// Close flushes and closes the underlying file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing telemetry store: %w", err)
	}
	return nil
}

func (s *Store) append(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.Time = s.now()
	ev.Session = s.session
	ev.Machine = s.machine
	ev.Version = s.version

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	data = append(data, '\n')

	// Telemetry must never fail a build, so write errors are swallowed.
	_, _ = s.file.Write(data)
}

// machineID is a stable, non-reversible identifier for the current machine.
func machineID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	sum := sha256.Sum256([]byte(host))
	return hex.EncodeToString(sum[:8])
}
