package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

func newTestQAService(t *testing.T, llm driven.LLMService) *QAService {
	t.Helper()
	index := memory.NewVectorIndex()
	embedder := newMockEmbedder()
	ingestAll(t, index, embedder, 500,
		"capitals.txt", "paris is the capital of france",
		"pets.txt", "cats purr",
	)
	return NewQAService(NewRetrievalService(index, embedder), llm)
}

func TestQAService_Answer(t *testing.T) {
	llm := &mockLLM{response: "  Paris.\n"}
	service := newTestQAService(t, llm)

	answer, err := service.Answer(context.Background(), "what is the capital? paris?", 1)

	require.NoError(t, err)
	assert.Equal(t, "what is the capital? paris?", answer.Query)
	assert.Equal(t, "Paris.", answer.Answer)
	assert.Equal(t, []string{"paris is the capital of france"}, answer.Sources)

	assert.Equal(t, driven.DefaultAnswerPrompt.System, llm.last.System)
	assert.Equal(t, "Context:\nparis is the capital of france\n\nQuestion: what is the capital? paris?\nAnswer:", llm.last.Prompt)
	assert.Equal(t, 128, llm.last.MaxTokens)
	assert.InDelta(t, 0.3, llm.last.Temperature, 1e-9)
}

func TestQAService_Answer_JoinsSourcesInRankOrder(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	service := newTestQAService(t, llm)

	answer, err := service.Answer(context.Background(), "paris", 2)

	require.NoError(t, err)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "paris is the capital of france", answer.Sources[0])
	assert.Contains(t, llm.last.Prompt, strings.Join(answer.Sources, "\n"))
}

func TestQAService_Answer_NoLLM(t *testing.T) {
	service := newTestQAService(t, nil)

	_, err := service.Answer(context.Background(), "paris", 1)

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestQAService_Answer_LLMError(t *testing.T) {
	llmErr := errors.New("model not loaded")
	service := newTestQAService(t, &mockLLM{err: llmErr})

	_, err := service.Answer(context.Background(), "paris", 1)

	assert.ErrorIs(t, err, llmErr)
}

func TestQAService_Answer_InvalidQuestion(t *testing.T) {
	service := newTestQAService(t, &mockLLM{response: "ok"})

	_, err := service.Answer(context.Background(), "", 1)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQAService_Answer_CustomPrompt(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	service := newTestQAService(t, llm)
	service.SetPromptStore(&mockPromptStore{prompts: map[string]driven.Prompt{
		driven.PromptAnswer: {System: "Answer in French.", Template: "CTX[{{.Context}}] Q[{{.Question}}]"},
	}})

	_, err := service.Answer(context.Background(), "cats", 1)

	require.NoError(t, err)
	assert.Equal(t, "Answer in French.", llm.last.System)
	assert.Equal(t, "CTX[cats purr] Q[cats]", llm.last.Prompt)
}

func TestQAService_Answer_PartialPromptKeepsBuiltinFields(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	service := newTestQAService(t, llm)
	service.SetPromptStore(&mockPromptStore{prompts: map[string]driven.Prompt{
		driven.PromptAnswer: {System: "Be brief."},
	}})

	_, err := service.Answer(context.Background(), "cats", 1)

	require.NoError(t, err)
	assert.Equal(t, "Be brief.", llm.last.System)
	assert.True(t, strings.HasPrefix(llm.last.Prompt, "Context:\ncats purr"))
}

func TestQAService_Answer_RejectedTemplateFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"no context reference", "Question: {{.Question}}"},
		{"parse error", "{{.Context"},
		{"unknown field", "{{.Context}} {{.Topic}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{response: "ok"}
			service := newTestQAService(t, llm)
			service.SetPromptStore(&mockPromptStore{prompts: map[string]driven.Prompt{
				driven.PromptAnswer: {Template: tt.template},
			}})

			_, err := service.Answer(context.Background(), "cats", 1)

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(llm.last.Prompt, "Context:\n"))
			assert.True(t, strings.HasSuffix(llm.last.Prompt, "Question: cats\nAnswer:"))
		})
	}
}

func TestQAService_Answer_MissingPromptFallsBack(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	service := newTestQAService(t, llm)
	service.SetPromptStore(&mockPromptStore{})

	_, err := service.Answer(context.Background(), "cats", 1)

	require.NoError(t, err)
	assert.Contains(t, llm.last.System, "Not mentioned in the document.")
}
