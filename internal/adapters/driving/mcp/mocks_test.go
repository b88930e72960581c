package mcp

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	response *domain.QueryResponse
	err      error
	gotTopK  int
}

func (m *mockRetrievalService) Query(_ context.Context, text string, topK int) (*domain.QueryResponse, error) {
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return &domain.QueryResponse{Query: text, TopK: topK, Results: []domain.QueryResult{}}, nil
}

func (m *mockRetrievalService) Nearest(_ context.Context, _, _ string) (*domain.Match, error) {
	return nil, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	err    error
	got    domain.IngestRequest
}

func (m *mockIngestService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.got = req
	return m.result, m.err
}

// mockCompletenessService is a mock implementation of driving.CompletenessService.
type mockCompletenessService struct {
	report       *domain.CompletenessReport
	err          error
	called       bool
	gotThreshold float64
}

func (m *mockCompletenessService) Evaluate(
	_ context.Context,
	_ string,
	_ []string,
	threshold float64,
) (*domain.CompletenessReport, error) {
	m.called = true
	m.gotThreshold = threshold
	return m.report, m.err
}

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	answer  *domain.Answer
	err     error
	gotTopK int
}

func (m *mockQAService) Answer(_ context.Context, _ string, topK int) (*domain.Answer, error) {
	m.gotTopK = topK
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	content   string
	removed   int
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.summaries, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Content(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) (int, error) {
	return m.removed, m.err
}
