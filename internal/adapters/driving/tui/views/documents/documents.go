// Package documents lists indexed documents in a table with a per-row
// action overlay.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// ErrNoDocumentService is shown when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

// Action is an entry of the per-row overlay.
type Action int

const (
	ActionShowContent Action = iota
	ActionDelete
	ActionCancel
)

func (a Action) String() string {
	return [...]string{"Show Content", "Delete", "Cancel"}[a]
}

// View lists indexed documents.
type View struct {
	styles *styles.Styles
	docs   driving.DocumentService
	ctx    context.Context
	table  table.Model

	documents []domain.DocumentSummary
	width     int
	loading   bool
	err       error
	notice    string

	// menu is the highlighted action while the overlay is open, -1 otherwise.
	menu Action
}

// NewView creates the documents view.
func NewView(s *styles.Styles, docs driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(s.Palette.Info).Bold(true)
	ts.Selected = s.Selected

	v := &View{
		styles: s,
		docs:   docs,
		ctx:    context.Background(),
		table:  table.New(table.WithFocused(true), table.WithStyles(ts)),
		menu:   -1,
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init closes the overlay and reloads the list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.menu = -1
	v.notice = ""
	return v.load()
}

func (v *View) load() tea.Cmd {
	docs, ctx := v.docs, v.ctx
	return func() tea.Msg {
		if docs == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		list, err := docs.List(ctx)
		return messages.DocumentsLoaded{Documents: list, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	docs, ctx := v.docs, v.ctx
	return func() tea.Msg {
		if docs == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: ErrNoDocumentService}
		}
		n, err := docs.Delete(ctx, id)
		return messages.DocumentDeleted{DocumentID: id, Removed: n, Err: err}
	}
}

// Update handles list results, the overlay and deletions.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		if v.IsShowingMenu() {
			return v, v.overlayKey(msg.String())
		}
		return v, v.listKey(msg.String())

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setDocuments(msg.Documents)
		}

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Deleted %s (%d chunks)", msg.DocumentID, msg.Removed)
		v.loading = true
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

func (v *View) listKey(k string) tea.Cmd {
	switch k {
	case "up", "k":
		v.table.MoveUp(1)
	case "down", "j":
		v.table.MoveDown(1)
	case "enter":
		if v.SelectedDocument() != nil {
			v.menu = ActionShowContent
		}
	case "r":
		return v.Init()
	case "esc":
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	return nil
}

func (v *View) overlayKey(k string) tea.Cmd {
	switch k {
	case "up", "k":
		v.menu = max(v.menu-1, ActionShowContent)
	case "down", "j":
		v.menu = min(v.menu+1, ActionCancel)
	case "esc":
		v.menu = -1
	case "enter":
		action := v.menu
		v.menu = -1
		doc := v.SelectedDocument()
		if doc == nil {
			return nil
		}
		switch action {
		case ActionShowContent:
			sel := messages.DocumentSelected{DocumentID: doc.DocumentID, Filename: doc.Filename, Back: messages.ViewDocuments}
			return func() tea.Msg { return sel }
		case ActionDelete:
			return v.remove(doc.DocumentID)
		case ActionCancel:
		}
	}
	return nil
}

func (v *View) setDocuments(docs []domain.DocumentSummary) {
	v.documents = docs
	rows := make([]table.Row, len(docs))
	for i, d := range docs {
		rows[i] = table.Row{d.Filename, fmt.Sprintf("%d chunks", d.TotalChunks), d.DocumentID}
	}
	cursor := v.table.Cursor()
	v.table.SetRows(rows)
	v.table.SetCursor(min(cursor, max(len(rows)-1, 0)))
}

// View renders the table, or the overlay when it is open.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.IsShowingMenu():
		b.WriteString(v.overlay())
		return b.String()
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed. Add some with: ragindex ingest <file>"))
	default:
		b.WriteString(v.table.View())
	}

	if v.notice != "" {
		b.WriteString("\n\n" + v.styles.Success.Render(v.notice))
	}
	b.WriteString("\n\n" + v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) overlay() string {
	doc := v.SelectedDocument()
	if doc == nil {
		return ""
	}

	lines := []string{
		v.styles.Subtitle.Render("Actions for: " + doc.Filename),
		v.styles.Muted.Render(doc.DocumentID),
		"",
	}
	for a := ActionShowContent; a <= ActionCancel; a++ {
		if a == v.menu {
			lines = append(lines, v.styles.Selected.Render("> "+a.String()))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+a.String()))
		}
	}
	lines = append(lines, "", v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return v.styles.Border.Render(strings.Join(lines, "\n"))
}

// SetDimensions resizes the table columns to the terminal.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	nameWidth := max(width-44, 12)
	v.table.SetColumns([]table.Column{
		{Title: "File", Width: nameWidth},
		{Title: "Chunks", Width: 12},
		{Title: "ID", Width: 36},
	})
	v.table.SetWidth(width)
	v.table.SetHeight(max(height-8, 2))
}

// Documents returns the loaded list.
func (v *View) Documents() []domain.DocumentSummary { return v.documents }

// SelectedIndex returns the row under the cursor.
func (v *View) SelectedIndex() int { return v.table.Cursor() }

// IsShowingMenu reports whether the action overlay is open.
func (v *View) IsShowingMenu() bool { return v.menu >= 0 }

// Err returns the last service error.
func (v *View) Err() error { return v.err }

// SelectedDocument returns the highlighted document, or nil when the list
// is empty.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.documents) {
		return nil
	}
	return &v.documents[i]
}
