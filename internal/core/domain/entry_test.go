package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHash = strings.Repeat("ab", 32)

func validEntry() Entry {
	return Entry{
		ID:     "doc-1:0",
		Text:   "hello world",
		Vector: []float32{1, 0},
		Metadata: ChunkMetadata{
			DocumentID:  "doc-1",
			Filename:    "a.txt",
			ContentHash: testHash,
		},
	}
}

func TestEntry_Validate(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		e := validEntry()
		require.NoError(t, e.Validate())
	})

	tests := []struct {
		name   string
		mutate func(e *Entry)
	}{
		{"missing id", func(e *Entry) { e.ID = "" }},
		{"missing text", func(e *Entry) { e.Text = "" }},
		{"missing vector", func(e *Entry) { e.Vector = nil }},
		{"missing document id", func(e *Entry) { e.Metadata.DocumentID = "" }},
		{"missing filename", func(e *Entry) { e.Metadata.Filename = "" }},
		{"short hash", func(e *Entry) { e.Metadata.ContentHash = "abcd" }},
		{"non-hex hash", func(e *Entry) { e.Metadata.ContentHash = strings.Repeat("zz", 32) }},
		{"negative position", func(e *Entry) { e.Position = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestChunkMetadata_Validate(t *testing.T) {
	assert.NoError(t, validEntry().Metadata.Validate())
	assert.ErrorIs(t, ChunkMetadata{}.Validate(), ErrInvalidInput)
}

func TestFilter_Matches(t *testing.T) {
	meta := validEntry().Metadata

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches", Filter{}, true},
		{"document id", Filter{DocumentID: "doc-1"}, true},
		{"filename", Filter{Filename: "a.txt"}, true},
		{"hash", Filter{ContentHash: testHash}, true},
		{"all fields", Filter{DocumentID: "doc-1", Filename: "a.txt", ContentHash: testHash}, true},
		{"wrong document", Filter{DocumentID: "doc-2"}, false},
		{"one field wrong", Filter{DocumentID: "doc-1", Filename: "b.txt"}, false},
		{"prefix is not a match", Filter{Filename: "a.tx"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(meta))
		})
	}
}

func TestFilter_Fields(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.Empty(t, Filter{}.Fields())
	assert.Equal(t, "{}", Filter{}.String())

	f := Filter{Filename: "a.txt"}
	assert.False(t, f.IsEmpty())
	assert.Equal(t, map[string]string{FieldFilename: "a.txt"}, f.Fields())
}

func TestValidateBatch(t *testing.T) {
	a := validEntry()
	b := validEntry()
	b.ID = "doc-1:1"

	dim, err := ValidateBatch([]Entry{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, dim)

	_, err = ValidateBatch([]Entry{a, a})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	b.Vector = []float32{1, 0, 0}
	_, err = ValidateBatch([]Entry{a, b})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	dim, err = ValidateBatch(nil)
	require.NoError(t, err)
	assert.Zero(t, dim)
}

func TestCheckDimension(t *testing.T) {
	assert.NoError(t, CheckDimension(0, 3))
	assert.NoError(t, CheckDimension(3, 3))
	assert.ErrorIs(t, CheckDimension(3, 4), ErrDimensionMismatch)
}
