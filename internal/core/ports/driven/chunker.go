package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Chunker splits a document's extracted text into ordered chunks. The
// returned chunks carry IDs and positions but no embeddings; an empty
// result means the text had no words.
type Chunker interface {
	Chunk(ctx context.Context, doc *domain.Document, text string) ([]domain.Chunk, error)
}
