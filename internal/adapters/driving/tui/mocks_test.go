package tui

import (
	"context"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

type mockRetrieval struct {
	response *domain.QueryResponse
	err      error
	lastTopK int
}

func (m *mockRetrieval) Query(_ context.Context, text string, topK int) (*domain.QueryResponse, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return &domain.QueryResponse{Query: text, TopK: topK}, nil
}

func (m *mockRetrieval) Nearest(context.Context, string, string) (*domain.Match, error) {
	return nil, nil
}

type mockQA struct {
	answer *domain.Answer
	err    error
}

func (m *mockQA) Answer(_ context.Context, question string, _ int) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Query: question, Answer: "42"}, nil
}

type mockDocuments struct {
	docs    []domain.DocumentSummary
	content string
	deleted []string
}

func (m *mockDocuments) List(context.Context) ([]domain.DocumentSummary, error) {
	return m.docs, nil
}

func (m *mockDocuments) Get(_ context.Context, id string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocuments) Content(context.Context, string) (string, error) {
	return m.content, nil
}

func (m *mockDocuments) Delete(_ context.Context, id string) (int, error) {
	m.deleted = append(m.deleted, id)
	return 2, nil
}
