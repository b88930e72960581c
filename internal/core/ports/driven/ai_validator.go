package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// AIConfigValidator checks that configured AI providers can serve requests.
// Settings that leave a provider unconfigured pass.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider when one is configured.
	ValidateEmbedding(ctx context.Context, cfg *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider when one is configured.
	ValidateLLM(ctx context.Context, cfg *domain.LLMSettings) error
}
