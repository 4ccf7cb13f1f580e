// Package errfmt turns structured errors into the text blocks the console
// shows. The reporter owns the decision of where the text goes; this package
// only decides what it looks like.
package errfmt

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sitewright/sitewright/structerr"
)

// Formatter renders structured errors into display text.
type Formatter interface {
	// Render returns a human-readable block for one error. The result
	// carries no trailing newline.
	Render(e *structerr.Error) string

	// WithoutColors permanently disables styling on this formatter.
	WithoutColors()
}

// Text is the standard formatter: a headline with the source message,
// followed by indented detail lines and the underlying cause when it adds
// information.
type Text struct {
	mu     sync.Mutex
	header lipgloss.Style
	key    lipgloss.Style
	plain  bool
}

// NewText creates a Text formatter with colors enabled.
func NewText() *Text {
	return &Text{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cb7676")),
		key:    lipgloss.NewStyle().Foreground(lipgloss.Color("#bfbaaa")),
	}
}

// WithoutColors disables styling. There is no way back: a formatter that has
// printed plain text once keeps printing plain text.
func (f *Text) WithoutColors() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.plain = true
	f.header = lipgloss.NewStyle()
	f.key = lipgloss.NewStyle()
}

// Render formats one structured error.
func (f *Text) Render(e *structerr.Error) string {
	if e == nil {
		return ""
	}

	f.mu.Lock()
	header, key := f.header, f.key
	f.mu.Unlock()

	var b strings.Builder
	b.WriteString(header.Render("ERROR"))
	b.WriteString(" ")
	b.WriteString(e.Context.SourceMessage)

	if len(e.Context.Details) > 0 {
		keys := make([]string, 0, len(e.Context.Details))
		for k := range e.Context.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString("\n  ")
			b.WriteString(key.Render(k + ":"))
			b.WriteString(" ")
			b.WriteString(fmt.Sprintf("%v", e.Context.Details[k]))
		}
	}

	if e.Err != nil && e.Err.Error() != e.Context.SourceMessage {
		b.WriteString("\n  ")
		b.WriteString(key.Render("caused by:"))
		b.WriteString(" ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}
