// Package structerr converts the many error shapes produced during a build
// into a single structured form that the rest of the tool can render, count,
// and report.
//
// Call sites hand the normalizer one of six input variants (a bare message, a
// native error, a prefixed error, a prefixed group, a list of inputs, or a
// pre-built Context) and always get back a flat, ordered slice of *Error
// values. Downstream consumers never have to re-inspect the original shape.
//
// # Input Variants
//
// Inputs are constructed with the variant functions and matched exhaustively
// by Normalize:
//
//	structerr.Message("something went wrong")
//	structerr.Cause(err)
//	structerr.Wrap("loading config", err)
//	structerr.Group("rendering pages", errs...)
//	structerr.List(inputs...)
//	structerr.FromContext(ctx)
//
// Normalize never panics and never returns an empty slice: inputs that carry
// no usable message produce a single Error with a fallback message, so every
// reported failure surfaces somewhere.
package structerr

import (
	"fmt"
	"strings"
)

// FallbackMessage is used when an input carries no usable message at all,
// such as a nil error or an empty string. Errors must never be silently
// dropped, so the normalizer substitutes this text instead.
const FallbackMessage = "unknown error (no message provided)"

// Context carries the human-readable description attached to a structured
// error. Details is free-form and survives into telemetry and formatting
// untouched.
type Context struct {
	SourceMessage string         `json:"source_message"`
	Details       map[string]any `json:"details,omitempty"`
}

// Error is a normalized error. Context.SourceMessage is always non-empty.
// Err holds the native error the input carried, or nil when the input was a
// bare message or a pre-built context.
type Error struct {
	Context Context
	Err     error
}

// Error implements the error interface using the source message.
func (e *Error) Error() string {
	return e.Context.SourceMessage
}

// Unwrap exposes the native cause, when one exists, to errors.Is and
// errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Input is one of the six normalizer input variants. The type is sealed:
// values are built with Message, Cause, Wrap, Group, List, or FromContext,
// and Normalize matches every variant exhaustively.
type Input interface {
	isInput()
}

type messageInput struct {
	text string
}

type causeInput struct {
	err error
}

type wrapInput struct {
	prefix string
	err    error
}

type groupInput struct {
	prefix string
	errs   []error
}

type listInput struct {
	inputs []Input
}

type contextInput struct {
	ctx Context
}

func (messageInput) isInput() {}
func (causeInput) isInput()   {}
func (wrapInput) isInput()    {}
func (groupInput) isInput()   {}
func (listInput) isInput()    {}
func (contextInput) isInput() {}

// Message reports a plain text failure with no native error behind it.
func Message(text string) Input {
	return messageInput{text: text}
}

// Cause reports a native error as-is. Its message becomes the source
// message and the error itself is preserved on the result.
func Cause(err error) Input {
	return causeInput{err: err}
}

// Wrap reports a native error prefixed with context about the operation
// that failed, for example Wrap("loading config", err).
func Wrap(prefix string, err error) Input {
	return wrapInput{prefix: prefix, err: err}
}

// Group reports several native errors that share one prefix. Each error
// normalizes to its own result, all carrying the prefix, in the order given.
func Group(prefix string, errs ...error) Input {
	return groupInput{prefix: prefix, errs: errs}
}

// List combines several inputs of any variant into one. The results are the
// concatenation of each input's results, in order.
func List(inputs ...Input) Input {
	return listInput{inputs: inputs}
}

// FromContext reports a context assembled by the caller, typically when the
// failure was produced by another tool that already described itself.
func FromContext(ctx Context) Input {
	return contextInput{ctx: ctx}
}

// Normalize flattens an input into one or more structured errors. The result
// is never empty and every element has a non-empty source message; inputs
// with nothing usable in them yield a single fallback error.
func Normalize(in Input) []*Error {
	switch v := in.(type) {
	case messageInput:
		return []*Error{fromMessage(v.text)}

	case causeInput:
		return []*Error{fromCause(v.err)}

	case wrapInput:
		return []*Error{fromWrap(v.prefix, v.err)}

	case groupInput:
		if len(v.errs) == 0 {
			return []*Error{fromMessage(v.prefix)}
		}
		out := make([]*Error, 0, len(v.errs))
		for _, err := range v.errs {
			out = append(out, fromWrap(v.prefix, err))
		}
		return out

	case listInput:
		if len(v.inputs) == 0 {
			return []*Error{fromMessage("")}
		}
		var out []*Error
		for _, in := range v.inputs {
			out = append(out, Normalize(in)...)
		}
		return out

	case contextInput:
		return []*Error{fromContext(v.ctx)}

	default:
		// Covers a nil Input. The sealed interface means no other type can
		// reach here.
		return []*Error{fromMessage("")}
	}
}

func fromMessage(text string) *Error {
	return &Error{Context: Context{SourceMessage: orFallback(text)}}
}

func fromCause(err error) *Error {
	if err == nil {
		return fromMessage("")
	}
	return &Error{
		Context: Context{SourceMessage: orFallback(err.Error())},
		Err:     err,
	}
}

func fromWrap(prefix string, err error) *Error {
	if err == nil {
		return fromMessage(prefix)
	}
	msg := strings.TrimSpace(fmt.Sprintf("%s %s", prefix, err.Error()))
	return &Error{
		Context: Context{SourceMessage: orFallback(msg)},
		Err:     err,
	}
}

func fromContext(ctx Context) *Error {
	ctx.SourceMessage = orFallback(ctx.SourceMessage)
	return &Error{Context: ctx}
}

func orFallback(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return FallbackMessage
	}
	return msg
}
