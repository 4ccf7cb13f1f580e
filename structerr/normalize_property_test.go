package structerr

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func genInput(rt *rapid.T, label string) Input {
	kind := rapid.SampledFrom([]string{"message", "cause", "wrap", "group", "context"}).Draw(rt, label+"_kind")
	switch kind {
	case "message":
		return Message(rapid.String().Draw(rt, label+"_text"))
	case "cause":
		if rapid.Bool().Draw(rt, label+"_nil") {
			return Cause(nil)
		}
		return Cause(errors.New(rapid.String().Draw(rt, label+"_err")))
	case "wrap":
		return Wrap(
			rapid.String().Draw(rt, label+"_prefix"),
			errors.New(rapid.String().Draw(rt, label+"_err")),
		)
	case "group":
		n := rapid.IntRange(0, 5).Draw(rt, label+"_size")
		errs := make([]error, n)
		for i := range errs {
			errs[i] = errors.New(rapid.String().Draw(rt, fmt.Sprintf("%s_err_%d", label, i)))
		}
		return Group(rapid.String().Draw(rt, label+"_prefix"), errs...)
	default:
		return FromContext(Context{
			SourceMessage: rapid.String().Draw(rt, label+"_msg"),
		})
	}
}

// Every normalized error must carry a non-empty source message, no matter how
// degenerate the input is.
func TestNormalizeAlwaysProducesMessage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "num_inputs")
		inputs := make([]Input, n)
		for i := range inputs {
			inputs[i] = genInput(rt, fmt.Sprintf("input_%d", i))
		}

		out := Normalize(List(inputs...))

		if len(out) == 0 {
			rt.Fatal("normalize returned an empty slice")
		}
		for i, e := range out {
			if e.Context.SourceMessage == "" {
				rt.Fatalf("result %d has an empty source message", i)
			}
		}
	})
}

// A group of N errors normalizes to exactly N results, each prefixed, in the
// original order.
func TestGroupPreservesOrderAndLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prefix := rapid.StringMatching(`[a-z]([a-z ]{0,18}[a-z])?`).Draw(rt, "prefix")
		n := rapid.IntRange(1, 10).Draw(rt, "num_errors")

		errs := make([]error, n)
		for i := range errs {
			errs[i] = fmt.Errorf("failure %d", i)
		}

		out := Normalize(Group(prefix, errs...))

		if len(out) != n {
			rt.Fatalf("got %d results for %d errors", len(out), n)
		}
		for i, e := range out {
			want := fmt.Sprintf("%s failure %d", prefix, i)
			if e.Context.SourceMessage != want {
				rt.Fatalf("result %d: got %q, want %q", i, e.Context.SourceMessage, want)
			}
		}
	})
}
