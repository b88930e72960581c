package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderHashing.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("cohere").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Empty(t, AIProviderOllama.APIKeyEnv())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestStorageBackend(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StorageBadger.IsPersistent())
	assert.False(t, StorageMemory.IsPersistent())
	assert.False(t, StorageBackend("chroma").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "sk"}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderHashing}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "sk-ant"}.IsConfigured())
	assert.False(t, LLMSettings{}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()
	assert.Equal(t, 500, s.Chunk.MaxChars)
	assert.Equal(t, 3, s.Query.TopK)
	assert.Equal(t, 0.9, s.Completeness.Threshold)
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.False(t, s.LLM.IsConfigured())
}

func TestDefaultModels(t *testing.T) {
	assert.Equal(t, "text-embedding-3-small", DefaultEmbeddingModels()[AIProviderOpenAI])
	assert.Equal(t, "llama3.2", DefaultLLMModels()[AIProviderOllama])
	_, ok := DefaultLLMModels()[AIProviderHashing]
	assert.False(t, ok)
}

func TestProviderLists(t *testing.T) {
	for _, p := range EmbeddingProviders() {
		assert.True(t, p.IsValid())
		assert.NotEmpty(t, DefaultEmbeddingModels()[p])
	}
	for _, p := range LLMProviders() {
		assert.True(t, LLMSettings{Provider: p, APIKey: "k"}.IsConfigured())
		assert.NotEmpty(t, DefaultLLMModels()[p])
	}
	assert.NotContains(t, LLMProviders(), AIProviderHashing)
	assert.NotContains(t, EmbeddingProviders(), AIProviderAnthropic)
}
