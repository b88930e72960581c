// Package storagetest holds behaviour tests shared by every driven.VectorIndex backend.
package storagetest

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Content hashes used by the shared fixtures.
var (
	HashA = strings.Repeat("a", 64)
	HashB = strings.Repeat("b", 64)
)

// Entry builds a valid entry for tests.
func Entry(id, docID, filename, hash string, vec ...float32) domain.Entry {
	return domain.Entry{
		ID:     id,
		Text:   "text of " + id,
		Vector: vec,
		Metadata: domain.ChunkMetadata{
			DocumentID:  docID,
			Filename:    filename,
			ContentHash: hash,
		},
	}
}

// Factory opens an empty index. Cleanup is registered on t.
type Factory func(t *testing.T) driven.VectorIndex

// RunVectorIndexTests exercises the VectorIndex contract against a backend.
func RunVectorIndexTests(t *testing.T, open Factory) {
	t.Helper()

	seed := func(t *testing.T) driven.VectorIndex {
		t.Helper()
		idx := open(t)
		err := idx.Add(context.Background(), []domain.Entry{
			Entry("d1:0", "d1", "a.txt", HashA, 1, 0),
			Entry("d1:1", "d1", "a.txt", HashA, 0, 1),
			Entry("d2:0", "d2", "b.txt", HashB, 1, 0),
		})
		require.NoError(t, err)
		return idx
	}
	ctx := context.Background()

	t.Run("empty index", func(t *testing.T) {
		idx := open(t)
		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		matches, err := idx.Query(ctx, []float32{1, 0}, 3, domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("add rejects existing id", func(t *testing.T) {
		idx := seed(t)
		err := idx.Add(ctx, []domain.Entry{Entry("d1:0", "d9", "z.txt", HashA, 1, 0)})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("add is all or nothing", func(t *testing.T) {
		idx := seed(t)
		err := idx.Add(ctx, []domain.Entry{
			Entry("d3:0", "d3", "c.txt", HashB, 0, 1),
			Entry("d1:1", "d3", "c.txt", HashB, 0, 1),
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		got, err := idx.GetWhere(ctx, domain.Filter{DocumentID: "d3"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("add rejects invalid entry", func(t *testing.T) {
		idx := open(t)
		err := idx.Add(ctx, []domain.Entry{Entry("x:0", "x", "x.txt", "not-a-hash", 1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("add rejects other dimension", func(t *testing.T) {
		idx := seed(t)
		err := idx.Add(ctx, []domain.Entry{Entry("d3:0", "d3", "c.txt", HashA, 1, 0, 0)})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

		_, err = idx.Query(ctx, []float32{1, 0, 0}, 1, domain.Filter{})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("query orders by distance and keeps insertion order on ties", func(t *testing.T) {
		idx := seed(t)
		matches, err := idx.Query(ctx, []float32{1, 0}, 3, domain.Filter{})
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "d1:0", matches[0].Entry.ID)
		assert.Equal(t, "d2:0", matches[1].Entry.ID)
		assert.Equal(t, "d1:1", matches[2].Entry.ID)
		assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
		assert.InDelta(t, 1.0, matches[2].Distance, 1e-6)
		assert.Equal(t, []float32{1, 0}, matches[0].Entry.Vector)
		assert.Equal(t, HashA, matches[0].Entry.Metadata.ContentHash)
	})

	t.Run("query honours k and filter", func(t *testing.T) {
		idx := seed(t)
		matches, err := idx.Query(ctx, []float32{1, 0}, 1, domain.Filter{Filename: "b.txt"})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "d2:0", matches[0].Entry.ID)

		matches, err = idx.Query(ctx, []float32{1, 0}, 0, domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, matches)

		matches, err = idx.Query(ctx, []float32{1, 0}, 5, domain.Filter{DocumentID: "nope"})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("get where returns insertion order", func(t *testing.T) {
		idx := seed(t)
		got, err := idx.GetWhere(ctx, domain.Filter{ContentHash: HashA})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "d1:0", got[0].ID)
		assert.Equal(t, "d1:1", got[1].ID)

		all, err := idx.GetWhere(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("delete where", func(t *testing.T) {
		idx := seed(t)
		removed, err := idx.DeleteWhere(ctx, domain.Filter{DocumentID: "d1"})
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		removed, err = idx.DeleteWhere(ctx, domain.Filter{DocumentID: "d1"})
		require.NoError(t, err)
		assert.Zero(t, removed)

		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("emptied index accepts a new dimension", func(t *testing.T) {
		idx := seed(t)
		_, err := idx.DeleteWhere(ctx, domain.Filter{})
		require.NoError(t, err)

		err = idx.Add(ctx, []domain.Entry{Entry("d5:0", "d5", "e.txt", HashA, 0, 0, 1)})
		require.NoError(t, err)
	})

	t.Run("replace swaps entries", func(t *testing.T) {
		idx := seed(t)
		err := idx.Replace(ctx, domain.Filter{Filename: "a.txt"}, []domain.Entry{
			Entry("d3:0", "d3", "a.txt", HashB, 0, 1),
		})
		require.NoError(t, err)

		got, err := idx.GetWhere(ctx, domain.Filter{Filename: "a.txt"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d3:0", got[0].ID)

		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("failed replace leaves index unchanged", func(t *testing.T) {
		idx := seed(t)
		err := idx.Replace(ctx, domain.Filter{Filename: "a.txt"}, []domain.Entry{
			Entry("d2:0", "d3", "a.txt", HashB, 0, 1),
		})
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
		assert.NotErrorIs(t, err, domain.ErrPartialReplace)

		got, err := idx.GetWhere(ctx, domain.Filter{Filename: "a.txt"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "d1:0", got[0].ID)
	})

	t.Run("concurrent adds", func(t *testing.T) {
		idx := open(t)
		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := string(rune('a' + i))
				assert.NoError(t, idx.Add(ctx, []domain.Entry{Entry(id+":0", id, id+".txt", HashA, 1, 0)}))
			}(i)
		}
		wg.Wait()

		n, err := idx.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, workers, n)
	})
}
