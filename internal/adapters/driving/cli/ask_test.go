package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestAskCmd_WithoutLLM(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := executeCommand("ask", "why?")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "ragindex config llm")
}

func TestWireServices_QAOnlyWithLLM(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()
	assert.Nil(t, qaService)
	assert.NotNil(t, retrievalService)

	setupTestServices(&stubLLM{reply: "ok"})
	assert.NotNil(t, qaService)
}

func TestAskCmd_AnswersFromContext(t *testing.T) {
	llm := &stubLLM{reply: "  Sunlight.  "}
	cleanup := setupTestServices(llm)
	defer cleanup()

	ingestText(t, "solar.txt", "Solar panels convert sunlight into electricity.")

	out, err := executeCommand("ask", "--sources", "what", "do", "solar", "panels", "convert?")

	require.NoError(t, err)
	assert.Contains(t, out, "Sunlight.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] Solar panels convert sunlight into electricity.")
	assert.Contains(t, llm.lastPrompt, "Solar panels convert sunlight into electricity.")
	assert.Contains(t, llm.lastPrompt, "what do solar panels convert?")
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServices(&stubLLM{reply: "Sunlight."})
	defer cleanup()

	ingestText(t, "solar.txt", "Solar panels convert sunlight into electricity.")

	out, err := executeCommand("ask", "--json", "-k", "1", "solar?")
	require.NoError(t, err)

	var answer domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, "solar?", answer.Query)
	assert.Equal(t, "Sunlight.", answer.Answer)
	assert.Len(t, answer.Sources, 1)
}
