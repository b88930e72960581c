package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// Generation parameters for answers.
const (
	answerMaxTokens   = 128
	answerTemperature = 0.3
)

// QAService answers questions from retrieved chunks using an LLM.
type QAService struct {
	retrieval   driving.RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewQAService creates a new question answering service.
// llm may be nil, in which case Answer fails with domain.ErrLLMUnavailable.
func NewQAService(retrieval driving.RetrievalService, llm driven.LLMService) *QAService {
	return &QAService{
		retrieval: retrieval,
		llm:       llm,
	}
}

// SetPromptStore sets the prompt store for loading a customised answer prompt.
func (s *QAService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer retrieves topK chunks, joins them as context and asks the LLM.
func (s *QAService) Answer(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	resp, err := s.retrieval.Query(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	sources := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		sources[i] = r.Text
	}

	logger.Section("Answer")
	defer logger.Timer("answer")()
	logger.Debug("answering %q from %d chunks with %s", question, len(sources), s.llm.ModelName())

	prompt := s.loadPrompt()
	message, err := renderAnswerMessage(prompt.Template, strings.Join(sources, "\n"), question)
	if err != nil {
		logger.Warn("answer template rejected, using built-in: %v", err)
		message, err = renderAnswerMessage(driven.DefaultAnswerPrompt.Template, strings.Join(sources, "\n"), question)
		if err != nil {
			return nil, fmt.Errorf("render answer prompt: %w", err)
		}
	}

	answer, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System:      prompt.System,
		Prompt:      message,
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Query:   question,
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// loadPrompt returns the answer prompt, filling empty fields from the built-in one.
func (s *QAService) loadPrompt() driven.Prompt {
	prompt := driven.DefaultAnswerPrompt
	if s.promptStore == nil {
		return prompt
	}
	custom, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		logger.Debug("answer prompt unavailable: %v", err)
		return prompt
	}
	if strings.TrimSpace(custom.System) != "" {
		prompt.System = custom.System
	}
	if strings.TrimSpace(custom.Template) != "" {
		prompt.Template = custom.Template
	}
	return prompt
}

// answerFields is the data an answer template is executed with.
type answerFields struct {
	Context  string
	Question string
}

// renderAnswerMessage executes tmpl. A template that never references the
// context is rejected, since the model would answer without any grounding.
func renderAnswerMessage(tmpl, contextText, question string) (string, error) {
	if !strings.Contains(tmpl, ".Context") {
		return "", fmt.Errorf("template does not reference {{.Context}}")
	}
	t, err := template.New(driven.PromptAnswer).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, answerFields{Context: contextText, Question: question}); err != nil {
		return "", err
	}
	return b.String(), nil
}
