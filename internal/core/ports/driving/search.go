package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// RetrievalService provides semantic search to external actors.
type RetrievalService interface {
	// Query returns the topK chunks closest to text across all documents.
	Query(ctx context.Context, text string, topK int) (*domain.QueryResponse, error)

	// Nearest returns the single closest chunk of one document.
	// Returns nil with no error when the document has no chunks.
	Nearest(ctx context.Context, text, documentID string) (*domain.Match, error)
}

// CompletenessService checks which topics a document covers.
type CompletenessService interface {
	// Evaluate classifies every topic as covered or missing for documentID.
	Evaluate(ctx context.Context, documentID string, topics []string, threshold float64) (*domain.CompletenessReport, error)
}

// QAService answers questions from retrieved context.
type QAService interface {
	// Answer retrieves topK chunks and asks the LLM to answer from them.
	Answer(ctx context.Context, question string, topK int) (*domain.Answer, error)
}
