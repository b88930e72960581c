// Package messages holds the tea.Msg types passed between the TUI views.
// Results of service calls arrive as *Completed or *Loaded messages with
// Err set on failure.
package messages

import "github.com/custodia-labs/ragindex/internal/core/domain"

// ViewType names a screen of the app.
type ViewType string

const (
	ViewMenu       ViewType = "menu"
	ViewQuery      ViewType = "query"
	ViewAsk        ViewType = "ask"
	ViewDocuments  ViewType = "documents"
	ViewDocContent ViewType = "doc_content"
	ViewHelp       ViewType = "help"
)

func (v ViewType) String() string { return string(v) }

// ViewChanged asks the app to switch screens.
type ViewChanged struct {
	View ViewType
}

// QueryCompleted carries the result of a query.
type QueryCompleted struct {
	Response *domain.QueryResponse
	Err      error
}

// AnswerCompleted carries the result of an ask.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// DocumentSelected opens the content view. Closing it returns to Back.
type DocumentSelected struct {
	DocumentID string
	Filename   string
	Back       ViewType
}

// DocumentContentLoaded carries the text of one document.
type DocumentContentLoaded struct {
	DocumentID string
	Content    string
	Err        error
}

// DocumentDeleted reports how many chunks went with the document.
type DocumentDeleted struct {
	DocumentID string
	Removed    int
	Err        error
}

// ErrorOccurred carries a failure that belongs to no particular call.
type ErrorOccurred struct {
	Err error
}

// Quit asks the app to exit.
type Quit struct{}
