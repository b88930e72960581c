package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// Ensure CompletenessService implements the interface.
var _ driving.CompletenessService = (*CompletenessService)(nil)

// CompletenessService checks which topics a document covers by finding
// each topic's nearest chunk within that document.
type CompletenessService struct {
	retrieval driving.RetrievalService
}

// NewCompletenessService creates a new completeness service.
func NewCompletenessService(retrieval driving.RetrievalService) *CompletenessService {
	return &CompletenessService{retrieval: retrieval}
}

// Evaluate classifies every topic in input order. A topic is covered when
// its nearest chunk lies within threshold cosine distance. A document with
// no chunks covers nothing. Coverage is a percentage rounded to 2 decimals.
func (s *CompletenessService) Evaluate(
	ctx context.Context,
	documentID string,
	topics []string,
	threshold float64,
) (*domain.CompletenessReport, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	report := &domain.CompletenessReport{
		DocumentID: documentID,
		Covered:    []string{},
		Missing:    []string{},
	}

	for _, topic := range topics {
		match, err := s.retrieval.Nearest(ctx, topic, documentID)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", topic, err)
		}
		if match != nil && match.Distance <= threshold {
			logger.Debug("completeness %s: %q covered (distance %.4f)", documentID, topic, match.Distance)
			report.Covered = append(report.Covered, topic)
			continue
		}
		logger.Debug("completeness %s: %q missing", documentID, topic)
		report.Missing = append(report.Missing, topic)
	}

	if len(topics) > 0 {
		report.Coverage = roundTo(float64(len(report.Covered))/float64(len(topics))*100, 2)
	}
	return report, nil
}
