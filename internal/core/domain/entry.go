package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Metadata field names as they appear in filters and persisted records.
const (
	FieldDocumentID  = "document_id"
	FieldFilename    = "filename"
	FieldContentHash = "content_hash"
)

// ChunkMetadata is the fixed record shape stored alongside every vector.
type ChunkMetadata struct {
	DocumentID  string `json:"document_id" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentHash string `json:"content_hash" validate:"required,len=64,hexadecimal"`
}

// Entry is a single persisted vector index record.
type Entry struct {
	ID       string        `validate:"required"`
	Text     string        `validate:"required"`
	Vector   []float32     `validate:"required,min=1"`
	Metadata ChunkMetadata

	// Position is the chunk's ordinal within its document.
	Position int `validate:"gte=0"`
}

// Match is an entry returned from a nearest-neighbour query.
type Match struct {
	Entry Entry

	// Distance is the cosine distance to the query vector.
	// Smaller is more similar.
	Distance float64
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the entry against the storage record shape.
func (e *Entry) Validate() error {
	if err := entryValidator().Struct(e); err != nil {
		return fmt.Errorf("%w: entry %q: %w", ErrInvalidInput, e.ID, err)
	}
	return nil
}

// Validate checks that all metadata fields are present and well formed.
func (m ChunkMetadata) Validate() error {
	if err := entryValidator().Struct(m); err != nil {
		return fmt.Errorf("%w: metadata: %w", ErrInvalidInput, err)
	}
	return nil
}

// Filter selects entries whose metadata exactly matches every set field.
// Empty fields are ignored; the zero Filter matches all entries.
type Filter struct {
	DocumentID  string
	Filename    string
	ContentHash string
}

// IsEmpty reports whether the filter has no fields set.
func (f Filter) IsEmpty() bool {
	return f.DocumentID == "" && f.Filename == "" && f.ContentHash == ""
}

// Matches reports whether metadata satisfies the filter.
func (f Filter) Matches(m ChunkMetadata) bool {
	if f.DocumentID != "" && f.DocumentID != m.DocumentID {
		return false
	}
	if f.Filename != "" && f.Filename != m.Filename {
		return false
	}
	if f.ContentHash != "" && f.ContentHash != m.ContentHash {
		return false
	}
	return true
}

// Fields returns the set filter fields keyed by metadata field name.
func (f Filter) Fields() map[string]string {
	fields := make(map[string]string, 3)
	if f.DocumentID != "" {
		fields[FieldDocumentID] = f.DocumentID
	}
	if f.Filename != "" {
		fields[FieldFilename] = f.Filename
	}
	if f.ContentHash != "" {
		fields[FieldContentHash] = f.ContentHash
	}
	return fields
}

// String renders the filter for logs.
func (f Filter) String() string {
	if f.IsEmpty() {
		return "{}"
	}
	return fmt.Sprintf("%v", f.Fields())
}

// ValidateBatch validates entries destined for one write and returns their
// shared vector dimension. Ids must be unique within the batch.
func ValidateBatch(entries []Entry) (int, error) {
	dim := 0
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return 0, err
		}
		if _, dup := seen[entries[i].ID]; dup {
			return 0, fmt.Errorf("%w: duplicate id %q in batch", ErrAlreadyExists, entries[i].ID)
		}
		seen[entries[i].ID] = struct{}{}

		if dim == 0 {
			dim = len(entries[i].Vector)
		} else if len(entries[i].Vector) != dim {
			return 0, fmt.Errorf("%w: entry %q has %d dimensions, batch has %d",
				ErrDimensionMismatch, entries[i].ID, len(entries[i].Vector), dim)
		}
	}
	return dim, nil
}

// CheckDimension reports a mismatch between a stored and an incoming dimension.
// A zero stored dimension means the index is still empty.
func CheckDimension(stored, incoming int) error {
	if stored != 0 && incoming != 0 && stored != incoming {
		return fmt.Errorf("%w: index has %d dimensions, got %d", ErrDimensionMismatch, stored, incoming)
	}
	return nil
}
