package render

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Console renders to a terminal, one line per event. Messages go through a
// charmbracelet logger; activities print their label with a status suffix
// each time something changes. There is no cursor movement, so output
// survives being piped to a file.
type Console struct {
	mu     sync.Mutex
	logger *clog.Logger
	styles theme
	board  *Board
}

// ConsoleOptions configures a Console.
type ConsoleOptions struct {
	// Writer receives all output. Defaults to os.Stdout.
	Writer io.Writer

	// Verbose enables Verbose messages from the start.
	Verbose bool

	// NoColor disables color output from the start. The NO_COLOR
	// environment variable forces it regardless.
	NoColor bool

	// Board, when set, receives live activity status updates for the
	// develop server to expose.
	Board *Board
}

// NewConsole creates a console renderer.
func NewConsole(opts ConsoleOptions) *Console {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	logger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: false,
	})

	c := &Console{
		logger: logger,
		styles: colorTheme(),
		board:  opts.Board,
	}
	c.SetVerbose(opts.Verbose)
	if opts.NoColor || os.Getenv("NO_COLOR") != "" {
		c.SetColors(false)
	}
	return c
}

// SetVerbose toggles Verbose messages by moving the logger threshold.
func (c *Console) SetVerbose(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enabled {
		c.logger.SetLevel(clog.DebugLevel)
	} else {
		c.logger.SetLevel(clog.InfoLevel)
	}
}

// SetColors toggles color output. Disabling swaps in unstyled lipgloss
// styles and downgrades the logger to an ASCII profile, so no escape
// sequences are written at all.
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enabled {
		c.styles = colorTheme()
		c.logger.SetColorProfile(termenv.ColorProfile())
	} else {
		c.styles = plainTheme()
		c.logger.SetColorProfile(termenv.Ascii)
	}
}

// Success prints a success line with a check glyph.
func (c *Console) Success(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Print(c.styles.Success.Render(glyphSuccess) + " " + text)
}

// Info prints an informational message.
func (c *Console) Info(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Info(text)
}

// Warn prints a warning.
func (c *Console) Warn(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Warn(text)
}

// Log prints an unadorned message regardless of the verbose setting.
func (c *Console) Log(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Print(text)
}

// Verbose prints a message only when verbose output is enabled.
func (c *Console) Verbose(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug(text)
}

// Error prints a pre-formatted error block with a cross glyph.
func (c *Console) Error(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Print(c.styles.Error.Render(glyphError) + " " + text)
}

// StartActivity announces the activity and returns its handle.
func (c *Console) StartActivity(info ActivityInfo) Activity {
	c.mu.Lock()
	c.logger.Print(c.styles.Activity.Render(glyphActivity) + " " + info.Text)
	c.mu.Unlock()

	if c.board != nil {
		c.board.Set(info.ID, Status{
			Text:    info.Text,
			Kind:    info.Kind,
			State:   StateRunning,
			Total:   info.Total,
			Started: time.Now(),
		})
	}

	return &consoleActivity{console: c, info: info, total: info.Total}
}

type consoleActivity struct {
	mu      sync.Mutex
	console *Console
	info    ActivityInfo
	current int64
	total   int64
	done    bool
}

func (a *consoleActivity) SetStatus(status string) {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	c := a.console
	c.mu.Lock()
	c.logger.Print(c.styles.Activity.Render(glyphActivity) + " " + a.info.Text + " " + c.styles.Muted.Render(status))
	c.mu.Unlock()

	if c.board != nil {
		c.board.Update(a.info.ID, func(s *Status) {
			s.Detail = status
		})
	}
}

func (a *consoleActivity) SetProgress(current, total int64) {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return
	}
	a.current = current
	a.total = total
	a.mu.Unlock()

	c := a.console
	c.mu.Lock()
	counts := fmt.Sprintf("[%d/%d]", current, total)
	c.logger.Print(c.styles.Activity.Render(glyphActivity) + " " + a.info.Text + " " + c.styles.Muted.Render(counts))
	c.mu.Unlock()

	if c.board != nil {
		c.board.Update(a.info.ID, func(s *Status) {
			s.Current = current
			s.Total = total
		})
	}
}

func (a *consoleActivity) Done(duration time.Duration) {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return
	}
	a.done = true
	current, total := a.current, a.total
	a.mu.Unlock()

	c := a.console
	line := c.styles.Success.Render(glyphSuccess) + " " + a.info.Text
	if a.info.Kind == KindProgress && total > 0 {
		line += " " + c.styles.Muted.Render(fmt.Sprintf("[%d/%d]", current, total))
	}
	if duration > 0 {
		line += " " + c.styles.Muted.Render("- "+duration.Round(time.Millisecond).String())
	}

	c.mu.Lock()
	c.logger.Print(line)
	c.mu.Unlock()

	if c.board != nil {
		c.board.Update(a.info.ID, func(s *Status) {
			s.State = StateDone
			s.Current = current
			if total > 0 {
				s.Total = total
			}
			s.DurationMS = duration.Milliseconds()
		})
	}
}
