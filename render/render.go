// Package render is the user-facing output seam. The reporter talks to the
// Renderer interface and never to a terminal directly, so console output,
// test capture, and silence are all just implementations.
//
// Renderers draw two things: plain messages (success, info, warn, log,
// verbose, error) and activities. An activity is announced once via
// StartActivity and then driven through the returned Activity handle until
// Done. The reporter serializes calls per activity; renderers only need to
// survive updates from different activities interleaving.
package render

import "time"

// Kind distinguishes the two activity indicator shapes.
type Kind int

const (
	// KindSpinner is an indeterminate activity: it has a status text but no
	// notion of completion fraction.
	KindSpinner Kind = iota
	// KindProgress is a determinate activity counting toward a total.
	KindProgress
)

// String returns the lowercase name used in status APIs and logs.
func (k Kind) String() string {
	switch k {
	case KindSpinner:
		return "spinner"
	case KindProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// ActivityInfo describes an activity when it starts.
type ActivityInfo struct {
	// ID uniquely identifies the activity for the life of the process.
	ID string
	// Text is the activity label, e.g. "building schema".
	Text string
	// Kind selects the indicator shape.
	Kind Kind
	// Total is the expected tick count. Zero when unknown or for spinners.
	Total int64
}

// Activity is a live activity handle. Implementations must tolerate calls
// after Done without panicking.
type Activity interface {
	// SetStatus replaces the short status shown alongside the activity text.
	SetStatus(status string)

	// SetProgress updates the current and total counts. Spinners ignore it.
	SetProgress(current, total int64)

	// Done marks the activity finished. duration is the measured elapsed
	// time, or zero for activities that do not time themselves.
	Done(duration time.Duration)
}

// Renderer draws reporter output.
type Renderer interface {
	// StartActivity announces a new activity and returns its handle.
	StartActivity(info ActivityInfo) Activity

	// Success prints a success message.
	Success(text string)
	// Info prints an informational message.
	Info(text string)
	// Warn prints a warning.
	Warn(text string)
	// Log prints an unadorned message.
	Log(text string)
	// Verbose prints a message only when verbose output is enabled.
	Verbose(text string)
	// Error prints a pre-formatted error block.
	Error(text string)

	// SetVerbose toggles whether Verbose messages are shown.
	SetVerbose(enabled bool)
	// SetColors toggles color output. When disabled, output carries no
	// escape sequences at all.
	SetColors(enabled bool)
}

// Discard is a Renderer that produces no output. Useful for benchmarks and
// for callers that only want the reporter's side effects.
type Discard struct{}

func (Discard) StartActivity(ActivityInfo) Activity { return discardActivity{} }
func (Discard) Success(string)                      {}
func (Discard) Info(string)                         {}
func (Discard) Warn(string)                         {}
func (Discard) Log(string)                          {}
func (Discard) Verbose(string)                      {}
func (Discard) Error(string)                        {}
func (Discard) SetVerbose(bool)                     {}
func (Discard) SetColors(bool)                      {}

type discardActivity struct{}

func (discardActivity) SetStatus(string)         {}
func (discardActivity) SetProgress(int64, int64) {}
func (discardActivity) Done(time.Duration)       {}
