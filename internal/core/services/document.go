package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reconstructs documents from their indexed chunks.
type DocumentService struct {
	index driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(index driven.VectorIndex) *DocumentService {
	return &DocumentService{index: index}
}

// List returns one summary per live document, ordered by filename.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	entries, err := s.index.GetWhere(ctx, domain.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	byID := make(map[string]*domain.DocumentSummary)
	for _, e := range entries {
		summary, ok := byID[e.Metadata.DocumentID]
		if !ok {
			summary = &domain.DocumentSummary{
				DocumentID:  e.Metadata.DocumentID,
				Filename:    e.Metadata.Filename,
				ContentHash: e.Metadata.ContentHash,
			}
			byID[e.Metadata.DocumentID] = summary
		}
		summary.TotalChunks++
	}

	summaries := make([]domain.DocumentSummary, 0, len(byID))
	for _, summary := range byID {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Filename != summaries[j].Filename {
			return summaries[i].Filename < summaries[j].Filename
		}
		return summaries[i].DocumentID < summaries[j].DocumentID
	})
	return summaries, nil
}

// Get retrieves a document and its chunks by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	entries, err := s.index.GetWhere(ctx, domain.Filter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	doc := &domain.Document{
		ID:          documentID,
		Filename:    entries[0].Metadata.Filename,
		ContentHash: entries[0].Metadata.ContentHash,
		Chunks:      make([]domain.Chunk, len(entries)),
	}
	for i, e := range entries {
		doc.Chunks[i] = domain.Chunk{
			ID:         e.ID,
			DocumentID: documentID,
			Content:    e.Text,
			Position:   e.Position,
			Embedding:  e.Vector,
		}
	}
	return doc, nil
}

// Content returns the chunk texts joined by single spaces in position order.
// This equals the whitespace-normalised extracted text.
func (s *DocumentService) Content(ctx context.Context, documentID string) (string, error) {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(doc.Chunks))
	for i, c := range doc.Chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, " "), nil
}

// Delete removes every chunk of a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (int, error) {
	if strings.TrimSpace(documentID) == "" {
		return 0, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	removed, err := s.index.DeleteWhere(ctx, domain.Filter{DocumentID: documentID})
	if err != nil {
		return 0, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	if removed == 0 {
		return 0, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	return removed, nil
}
