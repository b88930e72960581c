package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// metaDimension is the index_meta key holding the embedding dimension.
const metaDimension = "dimension"

// schema holds the versioned migrations, NNN_name.up.sql and NNN_name.down.sql.
//
//go:embed migrations/*.sql
var schema embed.FS

// Store is a SQLite-based vector index.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.ragindex/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragindex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection serialises writers; transactions never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(schema, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies the up scripts in dir newer than the recorded schema
// version, in version order, each in its own transaction.
func (s *Store) migrate(fsys fs.FS, dir string) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.SchemaVersion(context.Background())
	if err != nil {
		return err
	}

	pending, err := pendingMigrations(fsys, dir, current)
	if err != nil {
		return err
	}
	for _, m := range pending {
		script, err := fs.ReadFile(fsys, path.Join(dir, m.name))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		if err := s.applyMigration(m.version, string(script)); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.name, err)
		}
	}
	return nil
}

type migration struct {
	version int
	name    string
}

// pendingMigrations lists up scripts in dir with a version above current.
// Files without a numeric prefix are ignored.
func pendingMigrations(fsys fs.FS, dir string, current int) ([]migration, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var pending []migration
	for _, full := range names {
		name := path.Base(full)
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= current {
			continue
		}
		pending = append(pending, migration{version: version, name: name})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// ==================== Vector Index ====================

// Add inserts entries in one transaction, rejecting ids already stored.
func (s *Store) Add(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertEntries(ctx, tx, entries, dim)
	})
}

// Query ranks the rows matching filter by cosine distance to vector.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Match, error) {
	if k <= 0 {
		return []domain.Match{}, nil
	}

	dim, err := readDimension(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckDimension(dim, len(vector)); err != nil {
		return nil, err
	}

	candidates, err := selectEntries(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return domain.Nearest(vector, candidates, k), nil
}

// DeleteWhere removes every row matching filter.
func (s *Store) DeleteWhere(ctx context.Context, filter domain.Filter) (int, error) {
	var removed int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := deleteEntries(ctx, tx, filter)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// GetWhere returns every row matching filter in insertion order.
func (s *Store) GetWhere(ctx context.Context, filter domain.Filter) ([]domain.Entry, error) {
	return selectEntries(ctx, s.db, filter)
}

// Replace deletes rows matching filter and inserts entries in one transaction.
func (s *Store) Replace(ctx context.Context, filter domain.Filter, entries []domain.Entry) error {
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := deleteEntries(ctx, tx, filter); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return insertEntries(ctx, tx, entries, dim)
	})
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []domain.Entry, dim int) error {
	stored, err := readDimension(ctx, tx)
	if err != nil {
		return err
	}
	if err := domain.CheckDimension(stored, dim); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, document_id, filename, content_hash, position, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		res, err := stmt.ExecContext(ctx, e.ID, e.Metadata.DocumentID, e.Metadata.Filename,
			e.Metadata.ContentHash, e.Position, e.Text, float32SliceToBytes(e.Vector))
		if err != nil {
			return fmt.Errorf("saving entry: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: entry %q", domain.ErrAlreadyExists, e.ID)
		}
	}

	if stored == 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, metaDimension, strconv.Itoa(dim))
		if err != nil {
			return fmt.Errorf("saving dimension: %w", err)
		}
	}
	return nil
}

func deleteEntries(ctx context.Context, tx *sql.Tx, filter domain.Filter) (int, error) {
	where, args := whereClause(filter)
	res, err := tx.ExecContext(ctx, "DELETE FROM entries"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting entries: %w", err)
	}

	// An empty index accepts any dimension again.
	var remaining int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&remaining); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta WHERE key = ?", metaDimension); err != nil {
			return 0, fmt.Errorf("clearing dimension: %w", err)
		}
	}
	return int(removed), nil
}

func selectEntries(ctx context.Context, q queryer, filter domain.Filter) ([]domain.Entry, error) {
	where, args := whereClause(filter)
	rows, err := q.QueryContext(ctx, `
		SELECT id, document_id, filename, content_hash, position, text, embedding
		FROM entries`+where+`
		ORDER BY seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var e domain.Entry
		var blob []byte
		if err := rows.Scan(&e.ID, &e.Metadata.DocumentID, &e.Metadata.Filename,
			&e.Metadata.ContentHash, &e.Position, &e.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Vector = bytesToFloat32Slice(blob)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

func readDimension(ctx context.Context, q queryer) (int, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaDimension).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dimension: %w", err)
	}
	dim, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing dimension %q: %w", value, err)
	}
	return dim, nil
}

// whereClause renders filter as a WHERE clause over the metadata columns.
// Column names equal the metadata field names.
func whereClause(filter domain.Filter) (string, []any) {
	fields := filter.Fields()
	if len(fields) == 0 {
		return "", nil
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	conditions := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		conditions[i] = column + " = ?"
		args[i] = fields[column]
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
