// Package storage selects the VectorIndex backend named in settings.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/badger"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Open creates the vector index for settings.Backend.
// An empty backend selects SQLite.
func Open(settings domain.StorageSettings) (driven.VectorIndex, error) {
	backend := settings.Backend
	if backend == "" {
		backend = domain.StorageSQLite
	}

	switch backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.StorageBadger:
		dir := ""
		if settings.DataDir != "" {
			dir = filepath.Join(settings.DataDir, "badger")
		}
		index, err := badger.Open(dir)
		if err != nil {
			return nil, err
		}
		return index, nil

	case domain.StorageMemory:
		return memory.NewVectorIndex(), nil

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, backend)
	}
}
