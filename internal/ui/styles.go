package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color scheme
const (
	ColorError      = "1" // Red
	ColorSuccess    = "2" // Green
	ColorInfo       = "4" // Blue
	ColorPrimary    = "6" // Cyan
	ColorMuted      = "8" // Dark gray
	ColorLineNumber = ColorPrimary
)

// Styles holds the lipgloss styles for one output stream. Color decisions are
// made by the caller, never by sniffing the process's stdout.
type Styles struct {
	renderer *lipgloss.Renderer

	Header     lipgloss.Style
	FileName   lipgloss.Style
	LineNumber lipgloss.Style
	Status     lipgloss.Style
	Value      lipgloss.Style
	Error      lipgloss.Style
	ErrorValue lipgloss.Style
	Muted      lipgloss.Style
}

// NewStyles builds the style set, with ANSI colors when color is true and
// plain text otherwise.
func NewStyles(color bool) *Styles {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		renderer: r,
		Header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorSuccess)),
		FileName: r.NewStyle().
			Foreground(lipgloss.Color(ColorInfo)),
		LineNumber: r.NewStyle().
			Foreground(lipgloss.Color(ColorLineNumber)),
		Status: r.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary)),
		Value: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorInfo)),
		Error: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorError)),
		ErrorValue: r.NewStyle().
			Foreground(lipgloss.Color(ColorError)),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color(ColorMuted)),
	}
}

// Colored reports whether the styles emit escape sequences.
func (s *Styles) Colored() bool {
	return s.renderer.ColorProfile() != termenv.Ascii
}

// ErrorLine formats err as "Error: <message>".
func (s *Styles) ErrorLine(err error) string {
	return s.Error.Render("Error:") + " " + s.ErrorValue.Render(err.Error())
}

// StatusLine formats a label with an optional highlighted value.
func (s *Styles) StatusLine(label, value string) string {
	if value == "" {
		return s.Status.Render(label)
	}
	return s.Status.Render(label) + " " + s.Value.Render(value)
}
