package mcp

import (
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides semantic search.
	Retrieval driving.RetrievalService

	// Ingest indexes uploaded files.
	Ingest driving.IngestService

	// Completeness checks topic coverage of a document.
	Completeness driving.CompletenessService

	// QA answers questions from retrieved chunks.
	QA driving.QAService

	// Document manages indexed documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Only retrieval is required; tools for missing optional ports are not registered.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
