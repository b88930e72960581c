package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// DocumentService manages indexed documents.
type DocumentService interface {
	// List returns one summary per live document, ordered by filename.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Get retrieves a document and its chunks by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Content returns the chunk texts joined in position order.
	Content(ctx context.Context, documentID string) (string, error)

	// Delete removes every chunk of a document and returns how many were removed.
	Delete(ctx context.Context, documentID string) (int, error)
}
