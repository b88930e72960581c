package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/normalisers/docx"
	"github.com/custodia-labs/ragindex/internal/normalisers/eml"
	"github.com/custodia-labs/ragindex/internal/normalisers/html"
	"github.com/custodia-labs/ragindex/internal/normalisers/markdown"
	"github.com/custodia-labs/ragindex/internal/normalisers/pdf"
	"github.com/custodia-labs/ragindex/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file type markers to normalisers.
// A later registration for the same type replaces the earlier one.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[string]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	r.Register(eml.New())
	return r
}

// Register adds a normaliser under each of its supported types.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range normaliser.SupportedTypes() {
		r.normalisers[t] = normaliser
	}
}

// Normalise extracts text with the normaliser registered for the
// document's type marker.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	marker := raw.TypeMarker()

	r.mu.RLock()
	n, ok := r.normalisers[marker]
	r.mu.RUnlock()
	if !ok {
		if marker == "" {
			return "", fmt.Errorf("%w: %q has no extension", domain.ErrUnsupportedType, raw.Filename)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, marker)
	}

	return n.Normalise(ctx, raw)
}

// Supports reports whether a normaliser is registered for filename's type.
func (r *Registry) Supports(filename string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.normalisers[domain.FileTypeMarker(filename)]
	return ok
}

// SupportedTypes returns all registered type markers, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.normalisers))
	for t := range r.normalisers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
