package driving

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// IngestService turns uploaded files into indexed chunks.
type IngestService interface {
	// Ingest indexes one file. Identical content already in the index is
	// reported as a duplicate without mutation; a known filename with new
	// content replaces the old chunks.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
}
