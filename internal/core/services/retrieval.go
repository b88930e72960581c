package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers semantic queries against the vector index.
type RetrievalService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(index driven.VectorIndex, embedder driven.EmbeddingService) *RetrievalService {
	return &RetrievalService{
		index:    index,
		embedder: embedder,
	}
}

// Query embeds text once and returns the topK closest chunks across all
// documents. Score is the cosine distance rounded to 4 decimals; lower is
// more similar.
func (s *RetrievalService) Query(ctx context.Context, text string, topK int) (*domain.QueryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}

	logger.Section("Query")
	defer logger.Timer("query")()
	logger.Debug("query %q top_k=%d", text, topK)

	vector, err := s.embed(ctx, text)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, vector, topK, domain.Filter{})
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	results := make([]domain.QueryResult, len(matches))
	for i, m := range matches {
		results[i] = domain.QueryResult{
			DocumentID: m.Entry.Metadata.DocumentID,
			Filename:   m.Entry.Metadata.Filename,
			Text:       m.Entry.Text,
			Score:      roundTo(m.Distance, 4),
		}
		logger.Debug("  %d. %s [%s] distance=%.4f", i+1, m.Entry.ID, m.Entry.Metadata.Filename, m.Distance)
	}

	return &domain.QueryResponse{
		Query:   text,
		TopK:    topK,
		Results: results,
	}, nil
}

// Nearest returns the closest chunk of one document to text,
// or nil when the document has no chunks.
func (s *RetrievalService) Nearest(ctx context.Context, text, documentID string) (*domain.Match, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	vector, err := s.embed(ctx, text)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, vector, 1, domain.Filter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *RetrievalService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrProcessing, err)
	}
	return vector, nil
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
