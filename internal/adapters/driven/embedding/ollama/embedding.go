// Package ollama embeds text with a model served by a local Ollama.
package ollama

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults applied by NewEmbeddingService.
const (
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config configures EmbeddingService. Zero values select the defaults above
// and ollamaapi.DefaultBaseURL. Dimensions must match what Model produces;
// 0 looks the model up in domain.EmbeddingDimensions and, for models not
// listed there, takes the size of the first vectors the server returns.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService embeds batches through the /api/embed endpoint.
type EmbeddingService struct {
	api        *ollamaapi.Client
	model      string
	dimensions atomic.Int64
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbeddingService creates an Ollama-backed embedder.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}
	s := &EmbeddingService{
		api:   ollamaapi.New(cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request and returns unit vectors in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	want := s.Dimensions()
	if want == 0 {
		want = len(resp.Embeddings[0])
	}
	for i, vec := range resp.Embeddings {
		if len(vec) == 0 || len(vec) != want {
			return nil, fmt.Errorf("ollama: %s returned %d dimensions, expected %d",
				s.model, len(vec), want)
		}
		resp.Embeddings[i] = domain.Normalize(vec)
	}
	// The first successful batch fixes the size of an unlisted model.
	if !s.dimensions.CompareAndSwap(0, int64(want)) && s.Dimensions() != want {
		return nil, fmt.Errorf("ollama: %s returned %d dimensions, expected %d",
			s.model, want, s.Dimensions())
	}
	return resp.Embeddings, nil
}

// Dimensions returns the vector size, or 0 while an unlisted model has not
// produced a vector yet.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the Ollama model used for embeddings.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the server answers and the model is pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.CheckModel(ctx, s.model)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
