package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// Normaliser extracts plain text from raw document bytes.
// Each normaliser handles specific file types (e.g., pdf, docx).
type Normaliser interface {
	// SupportedTypes returns the file type markers (lower-cased extensions
	// without the dot) this normaliser handles.
	SupportedTypes() []string

	// Normalise extracts the document's text content.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)
}
