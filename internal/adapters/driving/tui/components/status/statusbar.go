// Package status draws the one-line bar under the query and ask views.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State int

const (
	StateReady State = iota
	StateBusy
	StateError
	StateResults
)

// Bar shows what the view is doing on the left and the relevant keys on
// the right.
type Bar struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	state   State
	message string
	width   int
}

// NewBar creates a status bar. Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.Styles.ShortKey = s.Muted.Bold(true)
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{styles: s, keys: km, help: h, width: 80}
}

// Set switches state and replaces the message.
func (b *Bar) Set(state State, message string) {
	b.state = state
	b.message = message
}

// Clear returns the bar to StateReady with no message.
func (b *Bar) Clear() {
	b.Set(StateReady, "")
}

// State returns the current state.
func (b *Bar) State() State { return b.state }

// Message returns the current message.
func (b *Bar) Message() string { return b.message }

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) { b.width = width }

// View renders the bar.
func (b *Bar) View() string {
	left := b.status()

	hints := b.keys.Typing()
	if b.state == StateResults {
		hints = b.keys.Browsing()
	}
	b.help.Width = max(b.width-lipgloss.Width(left)-2, 0)
	right := b.help.ShortHelpView(hints)

	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) status() string {
	switch {
	case b.state == StateError && b.message == "":
		return b.styles.Error.Render("Error")
	case b.state == StateError:
		return b.styles.Error.Render("Error: " + b.message)
	case b.state == StateBusy && b.message == "":
		return b.styles.Muted.Render("Working...")
	case b.state == StateBusy:
		return b.styles.Muted.Render(b.message)
	case b.message != "":
		return b.styles.Normal.Render(b.message)
	}
	return b.styles.Muted.Render("Ready")
}
