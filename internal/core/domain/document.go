package domain

import (
	"strconv"
	"time"
)

// Document represents an ingested file and its derived chunks.
type Document struct {
	// ID is the unique identifier generated at ingestion.
	ID string `json:"id"`

	// Filename is the name the file was uploaded under.
	Filename string `json:"filename"`

	// ContentHash is the hex SHA-256 of the raw uploaded bytes.
	ContentHash string `json:"content_hash"`

	// Chunks holds the document's chunks in positional order.
	Chunks []Chunk `json:"chunks"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Chunk represents a searchable unit within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`

	// Embedding is the vector representation for semantic search.
	Embedding []float32 `json:"-"`
}

// ChunkID builds the identity of the chunk at position within a document.
func ChunkID(documentID string, position int) string {
	return documentID + ":" + strconv.Itoa(position)
}

// DocumentSummary describes one live document in the index.
type DocumentSummary struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ContentHash string `json:"content_hash"`
	TotalChunks int    `json:"total_chunks"`
}
