package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

func chatServer(t *testing.T, got *chatRequest, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewLLMService_Defaults(t *testing.T) {
	service := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultLLMModel, service.ModelName())
	assert.Equal(t, ollamaapi.DefaultBaseURL, service.api.BaseURL())
	assert.Equal(t, DefaultLLMTimeout, service.api.Timeout())
	assert.NoError(t, service.Close())
}

func TestLLMService_Complete(t *testing.T) {
	var got chatRequest
	server := chatServer(t, &got, `{"message":{"role":"assistant","content":"Paris."},"done":true}`)

	service := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "qwen2"})
	answer, err := service.Complete(context.Background(), driven.CompletionRequest{
		System:      "Answer from the context.",
		Prompt:      "capital of France?",
		MaxTokens:   128,
		Temperature: 0.3,
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, "qwen2", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, []chatMessage{
		{Role: "system", Content: "Answer from the context."},
		{Role: "user", Content: "capital of France?"},
	}, got.Messages)
	require.NotNil(t, got.Options)
	assert.Equal(t, 128, got.Options.NumPredict)
	assert.InDelta(t, 0.3, got.Options.Temperature, 1e-9)
}

func TestLLMService_Complete_PromptOnly(t *testing.T) {
	var got chatRequest
	server := chatServer(t, &got, `{"message":{"role":"assistant","content":"ok"},"done":true}`)

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Complete(context.Background(),
		driven.CompletionRequest{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, []chatMessage{{Role: "user", Content: "hi"}}, got.Messages)
	assert.Nil(t, got.Options)
}

func TestLLMService_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'qwen2' not found"}`))
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Complete(context.Background(),
		driven.CompletionRequest{Prompt: "hi"})

	var apiErr *ollamaapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background()))
	assert.Error(t, NewLLMService(LLMConfig{BaseURL: server.URL, Model: "mistral"}).Ping(context.Background()))
}
