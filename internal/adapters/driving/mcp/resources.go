package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

const (
	documentsURI      = "ragindex://documents"
	documentURIPrefix = documentsURI + "/"

	mimeJSON = "application/json"
	mimeText = "text/plain"
)

// registerResources exposes the document list and each document's text.
// Both need the document service.
func (s *Server) registerResources() {
	if s.ports.Document == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Indexed documents with their chunk counts",
		MIMEType:    mimeJSON,
	}, s.readDocumentList)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentURIPrefix + "{document_id}",
		Name:        "document",
		Description: "Indexed text of one document, chunks joined in order",
		MIMEType:    mimeText,
	}, s.readDocument)
}

func (s *Server) readDocumentList(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.DocumentSummary{}
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, err
	}
	return contents(req.Params.URI, mimeJSON, string(data)), nil
}

func (s *Server) readDocument(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, ok := documentIDFromURI(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	text, err := s.ports.Document.Content(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, mcp.ResourceNotFoundError(uri)
	case err != nil:
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return contents(uri, mimeText, text), nil
}

func contents(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
	}
}

// documentIDFromURI returns the ID in ragindex://documents/{id}. IDs may be
// percent-encoded; nested paths are rejected.
func documentIDFromURI(uri string) (string, bool) {
	rest, found := strings.CutPrefix(uri, documentURIPrefix)
	if !found || rest == "" {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
