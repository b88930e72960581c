package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/badger"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func TestOpen_Backends(t *testing.T) {
	tests := []struct {
		name    string
		backend domain.StorageBackend
		check   func(t *testing.T, index any, dir string)
	}{
		{
			name:    "empty defaults to sqlite",
			backend: "",
			check: func(t *testing.T, index any, dir string) {
				store, ok := index.(*sqlite.Store)
				require.True(t, ok)
				assert.Equal(t, filepath.Join(dir, "index.db"), store.Path())
			},
		},
		{
			name:    "sqlite",
			backend: domain.StorageSQLite,
			check: func(t *testing.T, index any, dir string) {
				_, ok := index.(*sqlite.Store)
				assert.True(t, ok)
			},
		},
		{
			name:    "badger",
			backend: domain.StorageBadger,
			check: func(t *testing.T, index any, dir string) {
				v, ok := index.(*badger.VectorIndex)
				require.True(t, ok)
				assert.Equal(t, filepath.Join(dir, "badger"), v.Path())
			},
		},
		{
			name:    "memory",
			backend: domain.StorageMemory,
			check: func(t *testing.T, index any, dir string) {
				_, ok := index.(*memory.VectorIndex)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			index, err := Open(domain.StorageSettings{Backend: tt.backend, DataDir: dir})
			require.NoError(t, err)
			defer index.Close()

			tt.check(t, index, dir)

			count, err := index.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	index, err := Open(domain.StorageSettings{Backend: "cassandra", DataDir: t.TempDir()})
	assert.Nil(t, index)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
