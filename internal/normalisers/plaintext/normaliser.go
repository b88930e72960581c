// Package plaintext provides a Normaliser for plain text files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the file types this normaliser handles.
func (n *Normaliser) SupportedTypes() []string {
	return []string{"txt", "text"}
}

// Normalise returns the file content as text.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}
	content := string(raw.Content)
	content = strings.TrimPrefix(content, "\ufeff")
	return strings.ToValidUTF8(content, "\uFFFD"), nil
}
