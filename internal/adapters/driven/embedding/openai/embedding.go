// Package openai embeds text with the OpenAI embeddings endpoint.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults applied by NewEmbeddingService.
const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// Config selects the model. Dimensions below the model's native size
// asks the API for shortened vectors, which only the text-embedding-3
// models support; for other models it only declares the expected size.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
	MaxRetries int
}

// EmbeddingService embeds text with an OpenAI embedding model.
type EmbeddingService struct {
	client     openai.Client
	model      string
	dimensions int
	shortened  bool
}

// NewEmbeddingService creates an OpenAI-backed embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := openaiapi.NewClient(openaiapi.Options{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	native, known := domain.EmbeddingDimensions()[cfg.Model]
	if !known {
		native = 1536
	}
	svc := &EmbeddingService{client: client, model: cfg.Model, dimensions: native}
	if cfg.Dimensions > 0 && cfg.Dimensions != native {
		svc.dimensions = cfg.Dimensions
		svc.shortened = supportsShortening(cfg.Model)
	}
	return svc, nil
}

func supportsShortening(model string) bool {
	return model == "text-embedding-3-small" || model == "text-embedding-3-large"
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch sends all texts in one request. The API may return the data
// out of order; each entry is placed by its index.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	params := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(s.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if s.shortened {
		params.Dimensions = openai.Int(int64(s.dimensions))
	}

	resp, err := s.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: embed: %w", openaiapi.Describe(err))
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(texts) || vectors[i] != nil {
			return nil, fmt.Errorf("openai: unexpected embedding index %d", d.Index)
		}
		if len(d.Embedding) != s.dimensions {
			return nil, fmt.Errorf("openai: %s returned %d dimensions, configured for %d", s.model, len(d.Embedding), s.dimensions)
		}
		v := make([]float32, len(d.Embedding))
		for j, x := range d.Embedding {
			v[j] = float32(x)
		}
		vectors[i] = domain.Normalize(v)
	}
	return vectors, nil
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int { return s.dimensions }

// ModelName returns the model identifier.
func (s *EmbeddingService) ModelName() string { return s.model }

// Close releases resources. The client holds none.
func (s *EmbeddingService) Close() error { return nil }

// Ping checks the key is accepted and the model exists.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return openaiapi.CheckModel(ctx, s.client, s.model)
}
