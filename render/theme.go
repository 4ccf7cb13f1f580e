package render

import "github.com/charmbracelet/lipgloss"

// theme centralizes the console palette and the glyphs drawn in front of
// messages and activities.
type theme struct {
	Success  lipgloss.Style
	Info     lipgloss.Style
	Warn     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Activity lipgloss.Style
}

const (
	glyphSuccess  = "✔"
	glyphInfo     = "ℹ"
	glyphWarn     = "⚠"
	glyphError    = "✖"
	glyphActivity = "▸"
)

// colorTheme is the default palette.
func colorTheme() theme {
	return theme{
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4d9375")),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6394bf")),
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e6cc77")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#cb7676")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#bfbaaa")),
		Activity: lipgloss.NewStyle().Foreground(lipgloss.Color("#5eaab5")),
	}
}

// plainTheme renders every element unstyled. Used when colors are disabled;
// empty styles guarantee no escape sequences reach the writer.
func plainTheme() theme {
	plain := lipgloss.NewStyle()
	return theme{
		Success:  plain,
		Info:     plain,
		Warn:     plain,
		Error:    plain,
		Muted:    plain,
		Activity: plain,
	}
}
