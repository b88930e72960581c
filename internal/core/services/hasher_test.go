package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestContentHash(t *testing.T) {
	// Known SHA-256 vectors.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ContentHash(nil))
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		ContentHash([]byte("abc")))
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("same bytes"))
	b := ContentHash([]byte("same bytes"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ContentHash([]byte("same bytes ")))
}

func TestContentHash_PassesMetadataValidation(t *testing.T) {
	meta := domain.ChunkMetadata{
		DocumentID:  "doc",
		Filename:    "a.txt",
		ContentHash: ContentHash([]byte("x")),
	}
	assert.NoError(t, meta.Validate())
}
