// Package doccontent shows one document's indexed text in a scrollable
// viewport.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// ErrNoDocumentService is shown when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

// chrome is the number of rows taken by the title, rule, footer and help.
const chrome = 6

// View shows the full text of one document in a scrollable viewport.
type View struct {
	styles *styles.Styles
	docs   driving.DocumentService
	ctx    context.Context
	vp     viewport.Model

	sel     messages.DocumentSelected
	content string
	lines   []string
	width   int
	loading bool
	err     error
}

// NewView creates the document content view.
func NewView(s *styles.Styles, docs driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles: s,
		docs:   docs,
		ctx:    context.Background(),
		vp:     viewport.New(80, 24-chrome),
		sel:    messages.DocumentSelected{Back: messages.ViewDocuments},
		width:  80,
	}
	v.vp.KeyMap = viewport.KeyMap{}
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument clears the view and returns the command that loads sel.
func (v *View) SetDocument(sel messages.DocumentSelected) tea.Cmd {
	v.sel = sel
	v.content = ""
	v.err = nil
	v.loading = true
	v.layout()

	docs, ctx, id := v.docs, v.ctx, sel.DocumentID
	return func() tea.Msg {
		if docs == nil {
			return messages.DocumentContentLoaded{DocumentID: id, Err: ErrNoDocumentService}
		}
		text, err := docs.Content(ctx, id)
		return messages.DocumentContentLoaded{DocumentID: id, Content: text, Err: err}
	}
}

func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles loaded content, scrolling and navigation.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	case messages.DocumentContentLoaded:
		if msg.DocumentID == v.sel.DocumentID {
			v.loading = false
			v.err = msg.Err
			v.content = msg.Content
			v.layout()
		}
	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
	default:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	page := v.vp.Height
	switch k {
	case "up", "k":
		v.vp.SetYOffset(v.vp.YOffset - 1)
	case "down", "j":
		v.vp.SetYOffset(v.vp.YOffset + 1)
	case "pgup", "ctrl+u":
		v.vp.SetYOffset(v.vp.YOffset - page)
	case "pgdown", "ctrl+d", " ":
		v.vp.SetYOffset(v.vp.YOffset + page)
	case "home", "g":
		v.vp.GotoTop()
	case "end", "G":
		v.vp.GotoBottom()
	case "esc":
		back := v.sel.Back
		return func() tea.Msg { return messages.ViewChanged{View: back} }
	}
	return nil
}

// layout wraps the content to the view width and hands it to the viewport.
func (v *View) layout() {
	v.lines = nil
	if v.content != "" {
		wrapped := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(v.content)
		v.lines = strings.Split(wrapped, "\n")
	}
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	v.vp.GotoTop()
}

// View renders the title, the viewport and the key hints.
func (v *View) View() string {
	title := v.sel.Filename
	if title == "" {
		title = v.sel.DocumentID
	}

	var body, footer string
	switch {
	case v.loading:
		body = v.styles.Muted.Render("Loading content...")
	case v.err != nil:
		body = v.styles.Error.Render("Error: " + v.err.Error())
	case len(v.lines) == 0:
		body = v.styles.Muted.Render("(No content)")
	default:
		body = v.vp.View()
		if len(v.lines) > v.vp.Height {
			last := min(v.vp.YOffset+v.vp.Height, len(v.lines))
			footer = v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d (%.0f%%)",
				v.vp.YOffset+1, last, len(v.lines), v.vp.ScrollPercent()*100))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render(title),
		v.styles.Muted.Render(strings.Repeat("─", min(max(v.width-4, 1), 60))),
		body,
		footer,
		v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"),
	)
}

// SetDimensions resizes the viewport to fit the terminal.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.vp.Width = width
	v.vp.Height = max(height-chrome, 1)
	v.layout()
}

// DocumentID returns the document being shown.
func (v *View) DocumentID() string { return v.sel.DocumentID }

// Content returns the loaded text.
func (v *View) Content() string { return v.content }

// Lines returns the text wrapped to the current width.
func (v *View) Lines() []string { return v.lines }

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int { return v.vp.YOffset }

// Back returns the view that esc returns to.
func (v *View) Back() messages.ViewType { return v.sel.Back }

// Err returns the last load error.
func (v *View) Err() error { return v.err }
