// Package telemetry defines the usage-reporting contract the reporter fans
// events into, plus a local append-only store implementation.
//
// Nothing in this package talks to the network. Events are written to a JSONL
// file so that uploading, batching, or dropping them entirely is a separate
// decision made elsewhere.
package telemetry

import (
	"os"

	"github.com/sitewright/sitewright/structerr"
)

// DisableEnvVar turns all telemetry collection off when set to a non-empty
// value.
const DisableEnvVar = "SITEWRIGHT_TELEMETRY_DISABLED"

// Fields carries free-form event attributes.
type Fields map[string]any

// Client receives error reports and CLI lifecycle events.
type Client interface {
	// TrackError records one structured error under a taxonomy kind such as
	// "panic.build" or "error.build".
	TrackError(kind string, e *structerr.Error)

	// TrackCLI records a named CLI event, such as a command invocation or an
	// activity duration.
	TrackCLI(event string, fields Fields)
}

// Enabled reports whether telemetry collection is switched on for this
// process.
func Enabled() bool {
	return os.Getenv(DisableEnvVar) == ""
}

// Null discards all events. It is used when telemetry is disabled.
type Null struct{}

func (Null) TrackError(string, *structerr.Error) {}
func (Null) TrackCLI(string, Fields)             {}
