package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetStorageBackend selects the vector index backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetValue parses raw according to key's type and stores it.
	SetValue(key, raw string) error

	// UnsetValue removes a stored key so its default applies again.
	UnsetValue(key string) error

	// Overrides returns the explicitly stored values by key.
	Overrides() map[string]any

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig checks the stored embedding provider answers.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig checks the stored LLM provider answers.
	ValidateLLMConfig(ctx context.Context) error
}
