// Package activity implements the two long-running work trackers the
// reporter hands out: timed activities and progress activities.
//
// A Timer covers work with no meaningful completion fraction, such as
// "building schema". It measures wall time between Start and End, reports
// the elapsed duration exactly once, and finishes its trace span exactly
// once. Start is deliberately not idempotent: starting again resets the
// clock, which callers use to re-time retried work.
//
// A Progress covers countable work, such as rendering N pages. It counts
// Tick calls toward a mutable total and never polices the count; ticking
// past the total is the caller's bug to notice, not ours to hide. Start is
// idempotent here, and Done finishes the span without reporting a duration.
// The two trackers are intentionally asymmetric; see the method comments.
//
// # Usage
//
// Trackers are created by the reporter, which injects the renderer, span,
// and duration sink:
//
//	timer := r.CreateActivity("building schema")
//	timer.Start()
//	timer.SetStatus("merging types")
//	timer.End()
//
//	progress := r.CreateProgress("rendering pages", 120)
//	progress.Start()
//	for range pages {
//	    progress.Tick()
//	}
//	progress.Done()
//
// Both trackers tolerate being driven from one goroutine at a time, which
// is how the reporter is used; internal locking only protects against
// updates racing renderer teardown.
package activity
