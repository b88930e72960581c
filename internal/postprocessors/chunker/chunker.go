// Package chunker packs words into bounded chunks.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.Chunker = (*Chunker)(nil)

// DefaultMaxChars is the default maximum number of characters per chunk.
const DefaultMaxChars = domain.DefaultMaxChunkChars

// Split packs the words of text greedily into chunks of at most maxChars
// characters, joining words with single spaces. Whitespace runs collapse.
// A single word longer than maxChars becomes its own chunk.
// A non-positive maxChars falls back to DefaultMaxChars.
//
// Joining the result with single spaces reproduces the whitespace-normalised
// input.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	words := strings.Fields(text)
	chunks := make([]string, 0, len(words)/8+1)

	var b strings.Builder
	size := 0
	for _, word := range words {
		n := utf8.RuneCountInString(word)
		if size > 0 && size+1+n > maxChars {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
		if size > 0 {
			b.WriteByte(' ')
			size++
		}
		b.WriteString(word)
		size += n
	}
	if size > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// Chunker cuts document text with Split.
type Chunker struct {
	maxChars int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithMaxChars sets the maximum chunk length in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// New creates a chunker with DefaultMaxChars unless an option overrides it.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxChars returns the maximum chunk length in characters.
func (c *Chunker) MaxChars() int {
	return c.maxChars
}

// Chunk splits text into chunks of doc numbered from zero.
func (c *Chunker) Chunk(_ context.Context, doc *domain.Document, text string) ([]domain.Chunk, error) {
	parts := Split(text, c.maxChars)
	if len(parts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Content:    part,
			Position:   i,
		}
	}
	return chunks, nil
}
