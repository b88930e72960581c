package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkMaxChars   = "chunk.max_chars"
	keyQueryTopK       = "query.top_k"
	keyThreshold       = "completeness.threshold"
	keyStorageBackend  = "storage.backend"
	keyStorageDataDir  = "storage.data_dir"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyEmbedBurst      = "embedding.burst"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
)

// envPrefix marks the ragindex-specific copy of a provider's key variable,
// consulted before the provider's own (RAGINDEX_OPENAI_API_KEY, then
// OPENAI_API_KEY).
const envPrefix = "RAGINDEX_"

const defaultLocalBaseURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a settings service. validator may be nil, which
// makes the Validate*Config checks pass without contacting anything.
func NewSettingsService(configStore driven.ConfigStore, validator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunk: domain.ChunkSettings{
			MaxChars: s.getInt(keyChunkMaxChars, defaults.Chunk.MaxChars),
		},
		Query: domain.QuerySettings{
			TopK: s.getInt(keyQueryTopK, defaults.Query.TopK),
		},
		Completeness: domain.CompletenessSettings{
			Threshold: s.getFloat(keyThreshold, defaults.Completeness.Threshold),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.str(keyStorageDataDir),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.str(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.str(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDimensions, 0),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
			Burst:             s.getInt(keyEmbedBurst, defaults.Embedding.Burst),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.str(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.str(keyLLMAPIKey),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		label string
	}{
		{keyChunkMaxChars, settings.Chunk.MaxChars, "chunk max_chars"},
		{keyQueryTopK, settings.Query.TopK, "query top_k"},
		{keyThreshold, settings.Completeness.Threshold, "completeness threshold"},
		{keyStorageBackend, settings.Storage.Backend.String(), "storage backend"},
		{keyStorageDataDir, settings.Storage.DataDir, "storage data_dir"},
		{keyEmbedProvider, settings.Embedding.Provider.String(), "embedding provider"},
		{keyEmbedModel, settings.Embedding.Model, "embedding model"},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, "embedding base_url"},
		{keyEmbedDimensions, settings.Embedding.Dimensions, "embedding dimensions"},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond, "embedding requests_per_second"},
		{keyEmbedBurst, settings.Embedding.Burst, "embedding burst"},
		{keyLLMProvider, settings.LLM.Provider.String(), "llm provider"},
		{keyLLMModel, settings.LLM.Model, "llm model"},
		{keyLLMBaseURL, settings.LLM.BaseURL, "llm base_url"},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.label, err)
		}
	}

	// API keys taken from the environment are never written back.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envAPIKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required
	if apiKey == "" && provider.RequiresAPIKey() {
		apiKey = s.envAPIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
		}
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Set base URL based on provider type
	switch provider {
	case domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultLocalBaseURL
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	} else {
		settings.Embedding.Dimensions = 0
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.SupportsLLM() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if apiKey == "" && provider.RequiresAPIKey() {
		apiKey = s.envAPIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultLocalBaseURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorageBackend selects the vector index backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, backend)
	}
	if err := s.configStore.Set(keyStorageBackend, backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	return nil
}

// llmProviderNone is accepted by SetValue for llm.provider.
const llmProviderNone = "none"

// valueKind is the stored type of a settings key.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindEmbedProvider
	kindLLMProvider
	kindBackend
)

// settingKinds lists every key SetValue accepts.
var settingKinds = map[string]valueKind{
	keyChunkMaxChars:   kindInt,
	keyQueryTopK:       kindInt,
	keyThreshold:       kindFloat,
	keyStorageBackend:  kindBackend,
	keyStorageDataDir:  kindString,
	keyEmbedProvider:   kindEmbedProvider,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyEmbedDimensions: kindInt,
	keyEmbedRPS:        kindFloat,
	keyEmbedBurst:      kindInt,
	keyLLMProvider:     kindLLMProvider,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
}

// SettingKeys returns every key SetValue accepts, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue parses raw according to key's type and stores it.
func (s *SettingsService) SetValue(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		value = f
	case kindEmbedProvider:
		if p := domain.AIProvider(raw); raw != "" && !p.SupportsEmbeddings() {
			return fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidInput, raw)
		}
		value = raw
	case kindLLMProvider:
		// "none" is stored as the empty provider, which disables answers.
		if raw == llmProviderNone {
			raw = ""
		}
		if p := domain.AIProvider(raw); raw != "" && !p.SupportsLLM() {
			return fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidInput, raw)
		}
		value = raw
	case kindBackend:
		if !domain.StorageBackend(raw).IsValid() {
			return fmt.Errorf("%w: invalid storage backend %q", domain.ErrInvalidInput, raw)
		}
		value = raw
	default:
		value = raw
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// UnsetValue removes a stored key so its default applies again.
func (s *SettingsService) UnsetValue(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Overrides returns the explicitly stored values by key.
func (s *SettingsService) Overrides() map[string]any {
	keys := s.configStore.Keys()
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := s.configStore.Get(k); ok {
			values[k] = v
		}
	}
	return values
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunk.MaxChars <= 0 {
		return fmt.Errorf("%w: chunk.max_chars must be positive", domain.ErrInvalidInput)
	}
	if settings.Query.TopK <= 0 {
		return fmt.Errorf("%w: query.top_k must be positive", domain.ErrInvalidInput)
	}
	if settings.Completeness.Threshold < 0 || settings.Completeness.Threshold > 2 {
		return fmt.Errorf("%w: completeness.threshold must be within [0, 2]", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrInvalidInput, settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig checks the stored embedding provider answers.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig checks the stored LLM provider answers.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" {
		return ""
	}
	if v := s.getenv(envPrefix + name); v != "" {
		return v
	}
	return s.getenv(name)
}

// str returns the string stored at key, or "" for missing and non-string values.
func (s *SettingsService) str(key string) string {
	val, _ := s.configStore.Get(key)
	str, _ := val.(string)
	return str
}

// number returns the numeric value at key. TOML decodes integers as int64
// and a hand-edited 1.0 may come back as 1, so any numeric type is accepted.
func (s *SettingsService) number(key string) (float64, bool) {
	val, _ := s.configStore.Get(key)
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.str(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt treats zero as unset.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if n, ok := s.number(key); ok && int(n) != 0 {
		return int(n)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if n, ok := s.number(key); ok {
		return n
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.str(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.str(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
