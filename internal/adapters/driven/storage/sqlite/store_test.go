package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/storage/storagetest"
	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, "index.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".ragindex", "data", "index.db"), store.Path())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"entries", "index_meta", "schema_migrations"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, []domain.Entry{
		storagetest.Entry("d1:0", "d1", "a.txt", storagetest.HashA, 0.6, 0.8),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	version, err := reopened.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	got, err := reopened.GetWhere(ctx, domain.Filter{DocumentID: "d1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float32{0.6, 0.8}, got[0].Vector)

	err = reopened.Add(ctx, []domain.Entry{storagetest.Entry("d2:0", "d2", "b.txt", storagetest.HashB, 1, 0, 0)})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_Contract(t *testing.T) {
	storagetest.RunVectorIndexTests(t, func(t *testing.T) driven.VectorIndex {
		return setupTestStore(t)
	})
}

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.Filter
		wantWhere string
		wantArgs  []any
	}{
		{"empty", domain.Filter{}, "", nil},
		{"one field", domain.Filter{Filename: "a.txt"}, " WHERE filename = ?", []any{"a.txt"}},
		{
			"all fields sorted",
			domain.Filter{DocumentID: "d", Filename: "f", ContentHash: "h"},
			" WHERE content_hash = ? AND document_id = ? AND filename = ?",
			[]any{"h", "d", "f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFloat32Codec(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.25e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/001_initial.up.sql":   {Data: []byte("CREATE TABLE a (x);")},
		"m/001_initial.down.sql": {Data: []byte("DROP TABLE a;")},
		"m/010_later.up.sql":     {Data: []byte("CREATE TABLE c (x);")},
		"m/002_next.up.sql":      {Data: []byte("CREATE TABLE b (x);")},
		"m/notes.up.sql":         {Data: []byte("-- ignored")},
	}

	all, err := pendingMigrations(fsys, "m", 0)
	require.NoError(t, err)
	assert.Equal(t, []migration{
		{version: 1, name: "001_initial.up.sql"},
		{version: 2, name: "002_next.up.sql"},
		{version: 10, name: "010_later.up.sql"},
	}, all)

	rest, err := pendingMigrations(fsys, "m", 2)
	require.NoError(t, err)
	assert.Equal(t, []migration{{version: 10, name: "010_later.up.sql"}}, rest)
}

func TestStore_MigrateAppliesNewScripts(t *testing.T) {
	store := setupTestStore(t)

	extra := fstest.MapFS{
		"extra/002_tags.up.sql": {Data: []byte("CREATE TABLE tags (name TEXT);")},
	}
	require.NoError(t, store.migrate(extra, "extra"))

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	require.NoError(t, store.migrate(extra, "extra"), "re-running is a no-op")
}
