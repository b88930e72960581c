// Package mcp provides an MCP (Model Context Protocol) server adapter for ragindex.
// It lets AI assistants ingest documents, query the index and check topic
// coverage through the same services the CLI uses.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// toolError classifies a service error for the calling assistant. Errors
// caused by the request keep their message; everything else is logged and
// reported as a server-side failure.
func toolError(tool string, err error) error {
	if domain.IsClientError(err) {
		return fmt.Errorf("invalid request: %w", err)
	}
	logger.Error("mcp %s: %v", tool, err)
	return fmt.Errorf("%s failed: %w", tool, err)
}
