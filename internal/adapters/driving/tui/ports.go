// Package tui provides an interactive terminal browser for the ragindex index.
// It is a driving adapter over the retrieval, QA and document ports.
package tui

import (
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Retrieval runs semantic queries. Required.
	Retrieval driving.RetrievalService

	// QA answers questions. The Ask view is hidden when nil.
	QA driving.QAService

	// Document lists, shows and deletes documents. The Documents view is
	// hidden when nil.
	Document driving.DocumentService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
