// Package ai builds the embedding and LLM adapters selected by the settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragindex/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// DefaultPingTimeout bounds each connectivity check.
const DefaultPingTimeout = 5 * time.Second

const fixHint = "run 'ragindex config' to fix"

// pinger is the part of an adapter used to check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// Services holds the adapters built by Connect. Either may be nil.
type Services struct {
	Embedder driven.EmbeddingService
	LLM      driven.LLMService

	// Warnings explains each configured provider that could not be used.
	Warnings []string
}

// Close releases both adapters.
func (s *Services) Close() {
	if s.Embedder != nil {
		_ = s.Embedder.Close()
	}
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
}

// Connect builds and pings the configured providers. A provider that cannot
// be built or reached is left nil with a warning: ingestion and retrieval
// then fail with domain.ErrEmbeddingUnavailable, answers with
// domain.ErrLLMUnavailable.
func Connect(ctx context.Context, settings *domain.AppSettings) *Services {
	svcs := &Services{}
	if settings == nil {
		return svcs
	}

	if embedder, err := NewEmbeddingService(&settings.Embedding); err != nil {
		svcs.warn(domain.ErrEmbeddingUnavailable, err)
	} else if embedder != nil {
		if err := ping(ctx, embedder); err != nil {
			_ = embedder.Close()
			svcs.warn(domain.ErrEmbeddingUnavailable, fmt.Errorf("service unreachable (%w)", err))
		} else {
			svcs.Embedder = embedder
		}
	}

	if llm, err := NewLLMService(&settings.LLM); err != nil {
		svcs.warn(domain.ErrLLMUnavailable, err)
	} else if llm != nil {
		if err := ping(ctx, llm); err != nil {
			_ = llm.Close()
			svcs.warn(domain.ErrLLMUnavailable, fmt.Errorf("service unreachable (%w)", err))
		} else {
			svcs.LLM = llm
		}
	}

	return svcs
}

func (s *Services) warn(sentinel, err error) {
	s.Warnings = append(s.Warnings, fmt.Errorf("%w: %w; %s", sentinel, err, fixHint).Error())
}

func ping(ctx context.Context, p pinger) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// NewEmbeddingService builds the configured embedder, or returns nil when
// none is configured. Remote providers are wrapped in a rate limiter.
func NewEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	dims := settings.Dimensions
	if dims <= 0 {
		dims = domain.EmbeddingDimensions()[settings.Model]
	}

	var remote driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderHashing:
		if dims == 0 {
			dims = hashing.DefaultDimensions
		}
		return hashing.NewEmbeddingService(dims), nil

	case domain.AIProviderOllama:
		// 0 lets the adapter take the size of the first vectors returned.
		remote = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dims,
		})

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dims,
		})
		if err != nil {
			return nil, err
		}
		remote = svc

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	return ratelimit.Wrap(remote, ratelimit.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.Burst,
	}), nil
}

// NewLLMService builds the configured LLM, or returns nil when none is configured.
func NewLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
