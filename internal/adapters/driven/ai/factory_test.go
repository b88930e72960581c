package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// ollamaStub serves /api/tags listing the given models and fails everything else.
func ollamaStub(t *testing.T, models ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body := `{"models":[`
		for i, m := range models {
			if i > 0 {
				body += ","
			}
			body += `{"name":"` + m + `"}`
		}
		_, _ = w.Write([]byte(body + `]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func downServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewEmbeddingService_Unconfigured(t *testing.T) {
	for name, settings := range map[string]*domain.EmbeddingSettings{
		"nil":                nil,
		"empty":              {},
		"openai without key": {Provider: domain.AIProviderOpenAI},
		"unknown provider":   {Provider: "unknown", APIKey: "k"},
	} {
		t.Run(name, func(t *testing.T) {
			svc, err := NewEmbeddingService(settings)
			require.NoError(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestNewEmbeddingService_Providers(t *testing.T) {
	t.Run("hashing is never rate limited", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{
			Provider:          domain.AIProviderHashing,
			Dimensions:        32,
			RequestsPerSecond: 1,
		})
		require.NoError(t, err)
		assert.IsType(t, &hashing.EmbeddingService{}, svc)
		assert.Equal(t, "hashing-32", svc.ModelName())
	})

	t.Run("hashing default dimensions", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderHashing})
		require.NoError(t, err)
		assert.Equal(t, hashing.DefaultDimensions, svc.Dimensions())
	})

	t.Run("ollama known model", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    "nomic-embed-text",
		})
		require.NoError(t, err)
		assert.IsType(t, &ollamaembed.EmbeddingService{}, svc)
		assert.Equal(t, 768, svc.Dimensions())
	})

	t.Run("ollama unlisted model learns its dimensions", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    "bge-m3",
		})
		require.NoError(t, err)
		assert.Zero(t, svc.Dimensions())
	})

	t.Run("explicit dimensions win", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{
			Provider:   domain.AIProviderOpenAI,
			APIKey:     "k",
			Model:      "text-embedding-3-large",
			Dimensions: 256,
		})
		require.NoError(t, err)
		assert.IsType(t, &openaiembed.EmbeddingService{}, svc)
		assert.Equal(t, 256, svc.Dimensions())
	})

	t.Run("remote providers are rate limited when asked", func(t *testing.T) {
		svc, err := NewEmbeddingService(&domain.EmbeddingSettings{
			Provider:          domain.AIProviderOllama,
			Model:             "nomic-embed-text",
			RequestsPerSecond: 5,
			Burst:             2,
		})
		require.NoError(t, err)
		assert.IsType(t, &ratelimit.EmbeddingService{}, svc)
		assert.Equal(t, 768, svc.Dimensions())
	})
}

func TestNewLLMService(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		for _, settings := range []*domain.LLMSettings{
			nil,
			{},
			{Provider: domain.AIProviderHashing},
			{Provider: "unknown", APIKey: "k"},
		} {
			svc, err := NewLLMService(settings)
			require.NoError(t, err)
			assert.Nil(t, svc)
		}
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := NewLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "qwen2"})
		require.NoError(t, err)
		assert.IsType(t, &ollamallm.LLMService{}, svc)
		assert.Equal(t, "qwen2", svc.ModelName())
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := NewLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"})
		require.NoError(t, err)
		assert.IsType(t, &openaillm.LLMService{}, svc)
	})

	t.Run("anthropic", func(t *testing.T) {
		svc, err := NewLLMService(&domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &anthropicllm.LLMService{}, svc)
		assert.Equal(t, anthropicllm.DefaultModel, svc.ModelName())
	})
}

func TestConnect(t *testing.T) {
	t.Run("nil settings", func(t *testing.T) {
		svcs := Connect(context.Background(), nil)
		assert.Nil(t, svcs.Embedder)
		assert.Nil(t, svcs.LLM)
		assert.Empty(t, svcs.Warnings)
	})

	t.Run("hashing without llm", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderHashing}
		settings.LLM = domain.LLMSettings{}

		svcs := Connect(context.Background(), &settings)
		defer svcs.Close()

		assert.NotNil(t, svcs.Embedder)
		assert.Nil(t, svcs.LLM)
		assert.Empty(t, svcs.Warnings)
	})

	t.Run("reachable ollama llm", func(t *testing.T) {
		server := ollamaStub(t, "llama3.2:latest")
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderHashing}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL, Model: "llama3.2"}

		svcs := Connect(context.Background(), &settings)
		defer svcs.Close()

		assert.NotNil(t, svcs.LLM)
		assert.Empty(t, svcs.Warnings)
	})

	t.Run("unreachable providers become warnings", func(t *testing.T) {
		server := downServer(t)
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL, Model: "nomic-embed-text"}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL, Model: "llama3.2"}

		svcs := Connect(context.Background(), &settings)
		defer svcs.Close()

		assert.Nil(t, svcs.Embedder)
		assert.Nil(t, svcs.LLM)
		require.Len(t, svcs.Warnings, 2)
		assert.Contains(t, svcs.Warnings[0], domain.ErrEmbeddingUnavailable.Error())
		assert.Contains(t, svcs.Warnings[1], domain.ErrLLMUnavailable.Error())
		assert.Contains(t, svcs.Warnings[1], "ragindex config")
	})
}

func TestServices_Close(t *testing.T) {
	(&Services{}).Close()
	(&Services{
		Embedder: hashing.NewEmbeddingService(16),
		LLM:      ollamallm.NewLLMService(ollamallm.LLMConfig{}),
	}).Close()
}
