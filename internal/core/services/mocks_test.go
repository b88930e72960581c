package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// testVocab is the vocabulary of the keyword embedder used in tests.
var testVocab = []string{"cats", "dogs", "birds", "fish", "paris", "london"}

// mockEmbedder embeds text as normalised vocabulary counts plus a small bias
// so that text without vocabulary words still gets a non-zero vector.
type mockEmbedder struct {
	mu        sync.Mutex
	batchErr  error
	failAfter int // when > 0, EmbedBatch returns this many vectors fewer
	dims      int // overrides Dimensions() when non-zero
	batches   int
	queries   []string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{}
}

func (m *mockEmbedder) vector(text string) []float32 {
	v := make([]float32, len(testVocab)+1)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?")
		for i, w := range testVocab {
			if word == w {
				v[i]++
			}
		}
	}
	v[len(testVocab)] = 0.01
	return domain.Normalize(v)
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.queries = append(m.queries, text)
	m.mu.Unlock()
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts) - m.failAfter
	if n < 0 {
		n = 0
	}
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vectors[i] = m.vector(texts[i])
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims != 0 {
		return m.dims
	}
	return len(testVocab) + 1
}

func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// mockLLM records the last request and returns a canned response.
type mockLLM struct {
	response string
	err      error
	last     driven.CompletionRequest
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.last = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]driven.Prompt
}

func (m *mockPromptStore) Load(name string) (driven.Prompt, error) {
	p, ok := m.prompts[name]
	if !ok {
		return driven.Prompt{}, errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// partialReplaceIndex removes matching entries on Replace and then reports
// that the insert half failed.
type partialReplaceIndex struct {
	*memory.VectorIndex
}

func (p *partialReplaceIndex) Replace(ctx context.Context, filter domain.Filter, _ []domain.Entry) error {
	if _, err := p.VectorIndex.DeleteWhere(ctx, filter); err != nil {
		return err
	}
	return domain.ErrPartialReplace
}

// failingIndex fails every operation.
type failingIndex struct {
	*memory.VectorIndex
	err error
}

func (f *failingIndex) GetWhere(_ context.Context, _ domain.Filter) ([]domain.Entry, error) {
	return nil, f.err
}

func (f *failingIndex) Query(_ context.Context, _ []float32, _ int, _ domain.Filter) ([]domain.Match, error) {
	return nil, f.err
}

func (f *failingIndex) DeleteWhere(_ context.Context, _ domain.Filter) (int, error) {
	return 0, f.err
}
