package ai

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = Validator{}

// Validator checks settings by building the adapter they describe and pinging it.
type Validator struct{}

// ValidateEmbedding pings the embedding provider cfg describes.
// An unconfigured provider passes.
func (Validator) ValidateEmbedding(ctx context.Context, cfg *domain.EmbeddingSettings) error {
	svc, err := NewEmbeddingService(cfg)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(ctx, svc)
}

// ValidateLLM pings the LLM provider cfg describes.
func (Validator) ValidateLLM(ctx context.Context, cfg *domain.LLMSettings) error {
	svc, err := NewLLMService(cfg)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(ctx, svc)
}
