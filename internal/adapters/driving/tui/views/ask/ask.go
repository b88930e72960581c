// Package ask provides the question answering view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// ErrNoQAService indicates that no QA service was provided.
var ErrNoQAService = errors.New("QA service is required")

// View is the ask view: a question prompt and the generated answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Prompt
	statusbar *status.Bar

	qa    driving.QAService
	topK  int
	ctx   context.Context
	width int
	ready bool

	answer *domain.Answer
	err    error
}

// NewView creates an ask view using topK chunks as context.
func NewView(s *styles.Styles, km *keymap.KeyMap, qa driving.QAService, topK int) *View {
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
		styles:    s,
		keymap:    km,
		input:     input.NewPrompt(s, "Question", "Ask something about your documents..."),
		statusbar: status.NewBar(s, km),
		qa:        qa,
		topK:      topK,
		ctx:       context.Background(),
		width:     80,
	}
}

// WithContext sets the context used for answers.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the prompt cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.answer = msg.Answer
		v.input.Blur()
		v.statusbar.Set(status.StateResults, fmt.Sprintf("%d sources", len(msg.Answer.Sources)))
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if !v.input.Focused() {
		if key.Matches(msg, v.keymap.Edit) {
			v.Reset()
			return v, v.input.Focus()
		}
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.err = nil
		v.answer = nil
		v.statusbar.Set(status.StateBusy, "Thinking...")
		return v, v.runAnswer(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// runAnswer returns a command that asks the QA service.
func (v *View) runAnswer(question string) tea.Cmd {
	qa, ctx, topK := v.qa, v.ctx, v.topK
	return func() tea.Msg {
		if qa == nil {
			return messages.ErrorOccurred{Err: ErrNoQAService}
		}
		answer, err := qa.Answer(ctx, question, topK)
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Set(status.StateError, err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Ask"), "", v.input.View(), ""}

	switch {
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
		if errors.Is(v.err, domain.ErrLLMUnavailable) {
			sections = append(sections, v.styles.Muted.Render("Configure one with: ragindex config llm"))
		}
	case v.answer != nil:
		body := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(v.answer.Answer)
		sections = append(sections, v.styles.Normal.Render(body))
		if len(v.answer.Sources) > 0 {
			sections = append(sections, "", v.styles.Subtitle.Render("Sources"))
			for _, src := range v.answer.Sources {
				sections = append(sections, v.styles.Muted.Render("  "+src))
			}
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sizes the view and its components.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset clears the question and answer.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.answer = nil
	v.err = nil
	v.statusbar.Clear()
}

// Answer returns the last answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
