package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Retrieval == nil {
		ports.Retrieval = &mockRetrievalService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func ptr[T any](v T) *T { return &v }

func TestToolError(t *testing.T) {
	t.Run("client errors are reported as invalid requests", func(t *testing.T) {
		err := toolError("ingest", fmt.Errorf("wrap: %w", domain.ErrUnsupportedType))
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Contains(t, err.Error(), "invalid request")
	})

	t.Run("other errors are reported as tool failures", func(t *testing.T) {
		err := toolError("query", errors.New("disk full"))
		assert.Contains(t, err.Error(), "query failed")
		assert.Contains(t, err.Error(), "disk full")
		assert.False(t, domain.IsClientError(err))
	})
}

func TestIngestInput_FilenameSchemaListsTypes(t *testing.T) {
	field, ok := reflect.TypeOf(IngestInput{}).FieldByName("Filename")
	require.True(t, ok)
	schema := field.Tag.Get("jsonschema")
	for _, ext := range []string{"txt", "md", "html", "xhtml", "pdf", "docx", "eml"} {
		assert.Contains(t, schema, ext)
	}
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes text content", func(t *testing.T) {
		ingest := &mockIngestService{
			result: &domain.IngestResult{
				DocumentID:  "doc-1",
				Filename:    "notes.txt",
				TotalChunks: 2,
				SampleChunk: "First sentence.",
			},
		}
		server := newTestServer(t, &Ports{Ingest: ingest})

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Filename: "notes.txt", Text: "First sentence."})

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", ingest.got.Filename)
		assert.Equal(t, []byte("First sentence."), ingest.got.Content)
		assert.Equal(t, IngestOutput{
			DocumentID:  "doc-1",
			Filename:    "notes.txt",
			TotalChunks: 2,
			SampleChunk: "First sentence.",
		}, output)
	})

	t.Run("decodes base64 content", func(t *testing.T) {
		ingest := &mockIngestService{result: &domain.IngestResult{DocumentID: "doc-2", Filename: "a.pdf"}}
		server := newTestServer(t, &Ports{Ingest: ingest})

		raw := []byte{0x25, 0x50, 0x44, 0x46}
		_, _, err := server.handleIngest(ctx, nil, IngestInput{
			Filename:      "a.pdf",
			ContentBase64: base64.StdEncoding.EncodeToString(raw),
		})

		require.NoError(t, err)
		assert.Equal(t, raw, ingest.got.Content)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		server := newTestServer(t, &Ports{Ingest: &mockIngestService{}})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Filename: "a.pdf", ContentBase64: "%%%"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate reports message without chunk details", func(t *testing.T) {
		ingest := &mockIngestService{
			result: &domain.IngestResult{DocumentID: "doc-1", Filename: "notes.txt", Duplicate: true},
		}
		server := newTestServer(t, &Ports{Ingest: ingest})

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Filename: "notes.txt", Text: "x"})

		require.NoError(t, err)
		assert.Equal(t, domain.DuplicateMessage, output.Message)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Zero(t, output.TotalChunks)
	})

	t.Run("unsupported type is a client error", func(t *testing.T) {
		ingest := &mockIngestService{err: fmt.Errorf("exe: %w", domain.ErrUnsupportedType)}
		server := newTestServer(t, &Ports{Ingest: ingest})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Filename: "a.exe", Text: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid request")
	})
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns query results", func(t *testing.T) {
		retrieval := &mockRetrievalService{
			response: &domain.QueryResponse{
				Query: "test",
				TopK:  5,
				Results: []domain.QueryResult{
					{DocumentID: "doc-1", Filename: "a.txt", Text: "This is the content", Score: 0.12},
				},
			},
		}
		server := newTestServer(t, &Ports{Retrieval: retrieval})

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "test", TopK: 5})

		require.NoError(t, err)
		assert.Equal(t, 5, retrieval.gotTopK)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "This is the content", output.Results[0].Text)
	})

	t.Run("default top_k comes from the server", func(t *testing.T) {
		retrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: retrieval}, WithDefaults(4, 0))
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 4, retrieval.gotTopK)
		assert.Equal(t, 4, output.TopK)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{err: errors.New("index closed")}})

		_, _, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
	})
}

func TestServer_handleCompleteness(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the report", func(t *testing.T) {
		completeness := &mockCompletenessService{
			report: &domain.CompletenessReport{
				DocumentID: "doc-1",
				Covered:    []string{"pricing"},
				Missing:    []string{"security"},
				Coverage:   50,
			},
		}
		server := newTestServer(t, &Ports{Completeness: completeness})

		_, output, err := server.handleCompleteness(ctx, nil, CompletenessInput{
			DocumentID: "doc-1",
			Topics:     []string{"pricing", "security"},
			Threshold:  ptr(0.5),
		})

		require.NoError(t, err)
		assert.Equal(t, 0.5, completeness.gotThreshold)
		assert.Equal(t, 50.0, output.Coverage)
		assert.Equal(t, []string{"security"}, output.Missing)
	})

	t.Run("default threshold comes from the server", func(t *testing.T) {
		completeness := &mockCompletenessService{report: &domain.CompletenessReport{}}
		server := newTestServer(t, &Ports{Completeness: completeness})

		_, _, err := server.handleCompleteness(ctx, nil, CompletenessInput{DocumentID: "doc-1", Topics: []string{"a"}})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultCompletenessThreshold, completeness.gotThreshold)
	})

	t.Run("explicit zero threshold is kept", func(t *testing.T) {
		completeness := &mockCompletenessService{report: &domain.CompletenessReport{}}
		server := newTestServer(t, &Ports{Completeness: completeness})

		_, _, err := server.handleCompleteness(ctx, nil, CompletenessInput{
			DocumentID: "doc-1",
			Topics:     []string{"a"},
			Threshold:  ptr(0.0),
		})

		require.NoError(t, err)
		require.True(t, completeness.called)
		assert.Zero(t, completeness.gotThreshold)
	})

	t.Run("negative threshold is a client error", func(t *testing.T) {
		completeness := &mockCompletenessService{report: &domain.CompletenessReport{}}
		server := newTestServer(t, &Ports{Completeness: completeness})

		_, _, err := server.handleCompleteness(ctx, nil, CompletenessInput{
			DocumentID: "doc-1",
			Topics:     []string{"a"},
			Threshold:  ptr(-0.1),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.False(t, completeness.called)
	})

	t.Run("unknown document is a client error", func(t *testing.T) {
		completeness := &mockCompletenessService{err: fmt.Errorf("doc-9: %w", domain.ErrNotFound)}
		server := newTestServer(t, &Ports{Completeness: completeness})

		_, _, err := server.handleCompleteness(ctx, nil, CompletenessInput{DocumentID: "doc-9", Topics: []string{"a"}})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "invalid request")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer", func(t *testing.T) {
		qa := &mockQAService{answer: &domain.Answer{Query: "why?", Answer: "because", Sources: []string{"chunk"}}}
		server := newTestServer(t, &Ports{QA: qa})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "why?"})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTopK, qa.gotTopK)
		assert.Equal(t, "because", output.Answer)
	})

	t.Run("missing LLM is reported as failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{QA: &mockQAService{err: domain.ErrLLMUnavailable}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "why?"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "ask failed")
	})
}

func TestServer_handleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("reports removed chunks", func(t *testing.T) {
		server := newTestServer(t, &Ports{Document: &mockDocumentService{removed: 3}})

		_, output, err := server.handleDelete(ctx, nil, DeleteInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, DeleteOutput{DocumentID: "doc-1", DeletedChunks: 3}, output)
	})

	t.Run("unknown document is a client error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Document: &mockDocumentService{err: domain.ErrNotFound}})

		_, _, err := server.handleDelete(ctx, nil, DeleteInput{DocumentID: "doc-9"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid request")
	})
}

// toolNames connects an in-memory client to server and lists its tools.
func toolNames(t *testing.T, server *Server) []string {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	session, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	result, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	return names
}

func TestServer_RegistersToolsForPorts(t *testing.T) {
	t.Run("no LLM means no ask tool", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Ingest:       &mockIngestService{},
			Completeness: &mockCompletenessService{},
			Document:     &mockDocumentService{},
		})

		names := toolNames(t, server)

		assert.ElementsMatch(t, []string{"query", "ingest", "completeness", "delete_document"}, names)
	})

	t.Run("ask is offered with a QA service", func(t *testing.T) {
		server := newTestServer(t, &Ports{QA: &mockQAService{}})

		assert.ElementsMatch(t, []string{"query", "ask"}, toolNames(t, server))
	})
}
