// Package menu is the start screen listing the available views.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
)

// Item is one menu entry.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var entries = map[messages.ViewType]Item{
	messages.ViewQuery:     {Label: "Query", Hint: "find chunks by meaning"},
	messages.ViewAsk:       {Label: "Ask", Hint: "answer a question from your documents"},
	messages.ViewDocuments: {Label: "Documents", Hint: "browse and delete indexed files"},
	messages.ViewHelp:      {Label: "Help", Hint: "key bindings"},
}

// View is the start screen.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	ready    bool
}

// NewView lists views in the given order followed by Quit.
func NewView(s *styles.Styles, views ...messages.ViewType) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	items := make([]Item, 0, len(views)+1)
	for _, view := range views {
		item, ok := entries[view]
		if !ok {
			item = Item{Label: view.String()}
		}
		item.View = view
		items = append(items, item)
	}
	items = append(items, Item{Label: "Quit", Quit: true})

	return &View{styles: s, items: items}
}

func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the selection and emits ViewChanged or Quit on enter.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch k {
	case "up", "k":
		v.selected = max(v.selected-1, 0)
	case "down", "j":
		v.selected = min(v.selected+1, len(v.items)-1)
	case "q":
		return tea.Quit
	case "enter":
		item := v.items[v.selected]
		if item.Quit {
			return tea.Quit
		}
		return func() tea.Msg { return messages.ViewChanged{View: item.View} }
	}
	return nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", v.styles.Title.Render("ragindex"), v.styles.Muted.Render("semantic document index"))

	for i, item := range v.items {
		label := v.styles.Normal.Render(item.Label)
		cursor := "  "
		if i == v.selected {
			label = v.styles.Subtitle.Render(item.Label)
			cursor = "> "
		}
		b.WriteString(cursor + label)
		if item.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + v.styles.Help.Render("[j/k] navigate  [enter] select  [q] quit"))
	return b.String()
}

func (v *View) SetDimensions(_, _ int) {
	v.ready = true
}

// Items returns the menu entries in display order.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the index of the highlighted entry.
func (v *View) Selected() int {
	return v.selected
}
