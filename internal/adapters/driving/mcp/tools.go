package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Filename      string `json:"filename" jsonschema:"file name; its extension selects the extractor (txt, md, html, xhtml, pdf, docx, eml)"`
	Text          string `json:"text,omitempty" jsonschema:"plain file content, for text formats"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"base64 encoded file bytes, for binary formats"`
}

// IngestOutput is the output schema for the ingest tool. Message is set
// only when the content was already indexed.
type IngestOutput struct {
	Message     string `json:"message,omitempty"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	TotalChunks int    `json:"total_chunks,omitempty"`
	SampleChunk string `json:"sample_chunk,omitempty"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"text to search for by meaning"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of chunks to return (server default when omitted)"`
}

// CompletenessInput is the input schema for the completeness tool.
type CompletenessInput struct {
	DocumentID string   `json:"document_id" jsonschema:"ID of an indexed document"`
	Topics     []string `json:"topics" jsonschema:"topics the document is expected to cover"`
	Threshold  *float64 `json:"threshold,omitempty" jsonschema:"maximum distance for a topic to count as covered; 0 accepts exact matches only (server default when omitted)"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to use as context (server default when omitted)"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the document to remove"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	DocumentID    string `json:"document_id"`
	DeletedChunks int    `json:"deleted_chunks"`
}

// registerTools registers a tool for every configured port.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Find the indexed chunks closest in meaning to a query",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Index a file; identical content is reported as already ingested",
		}, s.handleIngest)
	}

	if s.ports.Completeness != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "completeness",
			Description: "Report which topics a document covers and which are missing",
		}, s.handleCompleteness)
	}

	if s.ports.QA != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using only the indexed documents",
		}, s.handleAsk)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_document",
			Description: "Remove a document and all of its chunks from the index",
		}, s.handleDelete)
	}
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	content := []byte(input.Text)
	if input.ContentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(input.ContentBase64)
		if err != nil {
			return nil, IngestOutput{}, toolError("ingest",
				fmt.Errorf("%w: content_base64: %v", domain.ErrInvalidInput, err))
		}
		content = decoded
	}

	result, err := s.ports.Ingest.Ingest(ctx, domain.IngestRequest{
		Filename: input.Filename,
		Content:  content,
	})
	if err != nil {
		return nil, IngestOutput{}, toolError("ingest", err)
	}

	output := IngestOutput{
		DocumentID: result.DocumentID,
		Filename:   result.Filename,
	}
	if result.Duplicate {
		output.Message = domain.DuplicateMessage
	} else {
		output.TotalChunks = result.TotalChunks
		output.SampleChunk = result.SampleChunk
	}
	return nil, output, nil
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, domain.QueryResponse, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = s.topK
	}

	resp, err := s.ports.Retrieval.Query(ctx, input.Query, topK)
	if err != nil {
		return nil, domain.QueryResponse{}, toolError("query", err)
	}
	return nil, *resp, nil
}

func (s *Server) handleCompleteness(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompletenessInput,
) (*mcp.CallToolResult, domain.CompletenessReport, error) {
	threshold := s.threshold
	if input.Threshold != nil {
		if *input.Threshold < 0 {
			return nil, domain.CompletenessReport{}, toolError("completeness",
				fmt.Errorf("%w: threshold must not be negative", domain.ErrInvalidInput))
		}
		threshold = *input.Threshold
	}

	report, err := s.ports.Completeness.Evaluate(ctx, input.DocumentID, input.Topics, threshold)
	if err != nil {
		return nil, domain.CompletenessReport{}, toolError("completeness", err)
	}
	return nil, *report, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.Answer, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = s.topK
	}

	answer, err := s.ports.QA.Answer(ctx, input.Question, topK)
	if err != nil {
		return nil, domain.Answer{}, toolError("ask", err)
	}
	return nil, *answer, nil
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	removed, err := s.ports.Document.Delete(ctx, input.DocumentID)
	if err != nil {
		return nil, DeleteOutput{}, toolError("delete_document", err)
	}
	return nil, DeleteOutput{DocumentID: input.DocumentID, DeletedChunks: removed}, nil
}
