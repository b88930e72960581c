package driven

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a document by its type marker.
type NormaliserRegistry interface {
	// Normalise extracts text using the normaliser registered for the
	// document's type marker. Unknown types fail with domain.ErrUnsupportedType.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedTypes returns all type markers that can be normalised.
	SupportedTypes() []string
}
