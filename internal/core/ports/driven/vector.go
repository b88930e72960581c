package driven

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// VectorIndex stores (id, text, vector, metadata) entries and answers
// nearest-neighbour queries with optional exact-match metadata filters.
//
// Reads may run concurrently with each other and with writes.
type VectorIndex interface {
	// Add appends entries. Existing ids are never overwritten; adding an id
	// that is already stored fails with domain.ErrAlreadyExists.
	Add(ctx context.Context, entries []domain.Entry) error

	// Query returns up to k entries closest to vector, ordered by ascending
	// cosine distance. Only entries matching filter are eligible. Ties keep
	// insertion order. Query never mutates state.
	Query(ctx context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Match, error)

	// DeleteWhere removes every entry matching filter and returns how many
	// were removed. Removing nothing is not an error.
	DeleteWhere(ctx context.Context, filter domain.Filter) (int, error)

	// GetWhere returns every entry matching filter in insertion order.
	GetWhere(ctx context.Context, filter domain.Filter) ([]domain.Entry, error)

	// Replace deletes every entry matching filter and adds entries as one
	// logical unit. Backends that cannot apply both halves atomically
	// return an error wrapping domain.ErrPartialReplace when the delete
	// was applied but the insert was not.
	Replace(ctx context.Context, filter domain.Filter, entries []domain.Entry) error

	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// NewEntries zips parallel slices into entries.
// All four slices must have the same length.
func NewEntries(
	ids, texts []string,
	vectors [][]float32,
	metadata []domain.ChunkMetadata,
) ([]domain.Entry, error) {
	n := len(ids)
	if len(texts) != n || len(vectors) != n || len(metadata) != n {
		return nil, fmt.Errorf("%w: length mismatch: ids=%d texts=%d vectors=%d metadata=%d",
			domain.ErrInvalidInput, n, len(texts), len(vectors), len(metadata))
	}

	entries := make([]domain.Entry, n)
	for i := range ids {
		entries[i] = domain.Entry{
			ID:       ids[i],
			Text:     texts[i],
			Vector:   vectors[i],
			Metadata: metadata[i],
			Position: i,
		}
	}
	return entries, nil
}
