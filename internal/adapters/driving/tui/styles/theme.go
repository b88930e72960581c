// Package styles holds the TUI palette. Colours adapt to light and dark
// terminals.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette names the colours the views draw with.
type Palette struct {
	Accent  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Dim     lipgloss.AdaptiveColor
	Good    lipgloss.AdaptiveColor
	Bad     lipgloss.AdaptiveColor
	Frame   lipgloss.AdaptiveColor
	Surface lipgloss.AdaptiveColor
}

// DefaultPalette is teal on slate.
var DefaultPalette = Palette{
	Accent:  lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"},
	Info:    lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"},
	Text:    lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"},
	Dim:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
	Good:    lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"},
	Bad:     lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"},
	Frame:   lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
	Surface: lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"},
}

// Styles are the rendered forms every view shares.
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Score    lipgloss.Style
	Help     lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style
}

// New derives the shared styles from p.
func New(p Palette) *Styles {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	framed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Frame).
		Padding(0, 1)

	return &Styles{
		Palette:    p,
		Title:      fg(p.Accent).Bold(true),
		Subtitle:   fg(p.Info).Bold(true),
		Normal:     fg(p.Text),
		Muted:      fg(p.Dim),
		Selected:   fg(p.Surface).Background(p.Accent).Bold(true),
		Error:      fg(p.Bad),
		Success:    fg(p.Good),
		Score:      fg(p.Info),
		Help:       fg(p.Dim).Italic(true),
		InputField: framed,
		StatusBar:  fg(p.Dim).Background(p.Surface).Padding(0, 1),
		Border:     framed,
	}
}

// DefaultStyles uses DefaultPalette.
func DefaultStyles() *Styles {
	return New(DefaultPalette)
}
