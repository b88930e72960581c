// Package query provides the semantic query view for the TUI.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// ErrNoRetrievalService indicates that no retrieval service was provided.
var ErrNoRetrievalService = errors.New("retrieval service is required")

const (
	actionShowDocument = "Show document"
	actionCancel       = "Cancel"
)

// actionMenu is the overlay opened on a selected result.
type actionMenu struct {
	actions  []string
	selected int
	result   domain.QueryResult
}

// View is the query view: a prompt, the result list and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Prompt
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	topK      int
	canShow   bool
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
	menu       *actionMenu
}

// NewView creates a query view returning topK results per query.
// canShow enables the "Show document" action on results.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	topK int,
	canShow bool,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewPrompt(s, "Query", "Describe what you are looking for..."),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		topK:       topK,
		canShow:    canShow,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the prompt cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.menu != nil {
		return v.handleMenuKey(msg)
	}

	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(v.input.Value())
			if text == "" {
				return v, nil
			}
			v.statusbar.Set(status.StateBusy, "Querying...")
			return v, v.runQuery(text)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Actions):
		if result := v.list.SelectedResult(); result != nil {
			v.openMenu(*result)
		}
	case key.Matches(msg, v.keymap.Edit):
		v.focusInput = true
		v.input.SetValue("")
		v.statusbar.Clear()
		return v, v.input.Focus()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) openMenu(result domain.QueryResult) {
	actions := []string{actionCancel}
	if v.canShow {
		actions = []string{actionShowDocument, actionCancel}
	}
	v.menu = &actionMenu{actions: actions, result: result}
}

func (v *View) handleMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menu.selected > 0 {
			v.menu.selected--
		}
	case "down", "j":
		if v.menu.selected < len(v.menu.actions)-1 {
			v.menu.selected++
		}
	case "esc":
		v.menu = nil
	case "enter":
		action := v.menu.actions[v.menu.selected]
		result := v.menu.result
		v.menu = nil
		if action == actionShowDocument {
			return v, func() tea.Msg {
				return messages.DocumentSelected{
					DocumentID: result.DocumentID,
					Filename:   result.Filename,
					Back:       messages.ViewQuery,
				}
			}
		}
	}
	return v, nil
}

// runQuery returns a command that queries the index.
func (v *View) runQuery(text string) tea.Cmd {
	retrieval, ctx, topK := v.retrieval, v.ctx, v.topK
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		resp, err := retrieval.Query(ctx, text, topK)
		return messages.QueryCompleted{Response: resp, Err: err}
	}
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	var results []domain.QueryResult
	if msg.Response != nil {
		results = msg.Response.Results
	}
	v.list.SetResults(results)
	v.statusbar.Set(status.StateResults, fmt.Sprintf("%d results", len(results)))

	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Set(status.StateError, err.Error())
}

// View renders the query view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render(fmt.Sprintf("Query (top %d)", v.topK)),
		"",
		v.input.View(),
		"",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View())
	if v.menu != nil {
		sections = append(sections, "", v.renderMenu())
	}
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderMenu() string {
	lines := make([]string, 0, len(v.menu.actions))
	for i, action := range v.menu.actions {
		if i == v.menu.selected {
			lines = append(lines, v.styles.Selected.Render("> "+action))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+action))
		}
	}
	return v.styles.Border.Render(strings.Join(lines, "\n"))
}

// SetDimensions sizes the view and its components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Reset returns the view to an empty, focused prompt.
func (v *View) Reset() {
	v.focusInput = true
	v.input.SetValue("")
	v.input.Focus()
	v.list.SetResults(nil)
	v.menu = nil
	v.err = nil
	v.statusbar.Clear()
}

// Query returns the text in the prompt.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the text in the prompt.
func (v *View) SetQuery(text string) {
	v.input.SetValue(text)
}

// Results returns the current results.
func (v *View) Results() []domain.QueryResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused reports whether the prompt has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// MenuOpen reports whether the result action menu is visible.
func (v *View) MenuOpen() bool {
	return v.menu != nil
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
