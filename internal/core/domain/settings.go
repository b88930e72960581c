package domain

const unknownDescription = "Unknown"

// Defaults applied when configuration leaves a value unset.
const (
	DefaultMaxChunkChars         = 500
	DefaultTopK                  = 3
	DefaultCompletenessThreshold = 0.9
	DefaultEmbeddingRPS          = 10.0
	DefaultEmbeddingBurst        = 10
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API. It has no
	// embedding endpoint and is only offered for answers.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the built-in feature-hashing embedder.
	// It needs no model server and supports embeddings only.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// APIKeyEnv names the environment variable holding the provider's key,
// or "" for providers without one.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// SupportsEmbeddings returns true if the provider can embed text.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderHashing
}

// SupportsLLM returns true if the provider can answer prompts.
func (p AIProvider) SupportsLLM() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (built-in)"
	default:
		return unknownDescription
	}
}

// EmbeddingProviders returns the providers that can produce embeddings.
func EmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderHashing}
}

// LLMProviders returns the providers that can generate answers.
func LLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// StorageBackend selects the VectorIndex implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageBadger StorageBackend = "badger"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageBadger, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// IsPersistent reports whether the backend survives a restart.
func (b StorageBackend) IsPersistent() bool {
	return b == StorageSQLite || b == StorageBadger
}

// ChunkSettings configures the chunker.
type ChunkSettings struct {
	// MaxChars bounds chunk length in characters.
	MaxChars int
}

// QuerySettings configures semantic retrieval.
type QuerySettings struct {
	// TopK is the default number of results.
	TopK int
}

// CompletenessSettings configures topic coverage checks.
type CompletenessSettings struct {
	// Threshold is the maximum distance at which a topic counts as covered.
	Threshold float64
}

// StorageSettings selects where entries are persisted.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir overrides the default data directory (~/.ragindex/data).
	DataDir string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int

	// RequestsPerSecond limits calls to the provider.
	RequestsPerSecond float64

	// Burst is the rate limiter bucket size.
	Burst int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI and Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.SupportsLLM() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunk        ChunkSettings
	Query        QuerySettings
	Completeness CompletenessSettings
	Storage      StorageSettings
	Embedding    EmbeddingSettings
	LLM          LLMSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings default to a local Ollama; the LLM is left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunk:        ChunkSettings{MaxChars: DefaultMaxChunkChars},
		Query:        QuerySettings{TopK: DefaultTopK},
		Completeness: CompletenessSettings{Threshold: DefaultCompletenessThreshold},
		Storage:      StorageSettings{Backend: StorageSQLite},
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             "nomic-embed-text",
			RequestsPerSecond: DefaultEmbeddingRPS,
			Burst:             DefaultEmbeddingBurst,
		},
		LLM: LLMSettings{},
	}
}

// EmbeddingDimensions returns known output sizes of embedding models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"all-minilm":             384,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"hashing-256":            256,
	}
}

// DefaultEmbeddingModels returns the default embedding model per provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-256",
	}
}

// DefaultLLMModels returns the default LLM model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}
