package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// metaKey is the key of the single indexMeta record.
const metaKey = "meta"

// entryRecord is the persisted form of a domain.Entry.
type entryRecord struct {
	ID          string
	DocumentID  string `badgerhold:"index"`
	Filename    string `badgerhold:"index"`
	ContentHash string `badgerhold:"index"`
	Position    int
	Text        string
	Vector      []float32

	// Seq records insertion order.
	Seq uint64
}

// indexMeta holds index-wide state.
type indexMeta struct {
	Dimension int
	NextSeq   uint64
}

func (r *entryRecord) toEntry() domain.Entry {
	return domain.Entry{
		ID:       r.ID,
		Text:     r.Text,
		Vector:   r.Vector,
		Position: r.Position,
		Metadata: domain.ChunkMetadata{
			DocumentID:  r.DocumentID,
			Filename:    r.Filename,
			ContentHash: r.ContentHash,
		},
	}
}

// VectorIndex implements driven.VectorIndex on badgerhold.
type VectorIndex struct {
	store *badgerhold.Store
	path  string

	// writeMu serialises write transactions to avoid Badger conflicts.
	writeMu sync.Mutex
}

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Open opens or creates a Badger vector index in dir.
// If dir is empty, defaults to ~/.ragindex/data/badger.
func Open(dir string) (*VectorIndex, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".ragindex", "data", "badger")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	logger.Debug("opening badger index at %s", dir)

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening badger database: %w", err)
	}

	return &VectorIndex{store: store, path: dir}, nil
}

// Path returns the database directory.
func (v *VectorIndex) Path() string {
	return v.path
}

// Close closes the database.
func (v *VectorIndex) Close() error {
	if v.store != nil {
		return v.store.Close()
	}
	return nil
}

// Add inserts entries in one transaction, rejecting ids already stored.
func (v *VectorIndex) Add(_ context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	return v.update(func(tx *badgerdb.Txn) error {
		return v.insert(tx, entries, dim)
	})
}

// Query ranks the records matching filter by cosine distance to vector.
func (v *VectorIndex) Query(_ context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Match, error) {
	if k <= 0 {
		return []domain.Match{}, nil
	}

	var matches []domain.Match
	err := v.store.Badger().View(func(tx *badgerdb.Txn) error {
		meta, err := v.meta(tx)
		if err != nil {
			return err
		}
		if err := domain.CheckDimension(meta.Dimension, len(vector)); err != nil {
			return err
		}

		candidates, err := v.find(tx, filter)
		if err != nil {
			return err
		}
		matches = domain.Nearest(vector, candidates, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// DeleteWhere removes every record matching filter.
func (v *VectorIndex) DeleteWhere(_ context.Context, filter domain.Filter) (int, error) {
	var removed int
	err := v.update(func(tx *badgerdb.Txn) error {
		n, err := v.delete(tx, filter)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// GetWhere returns every record matching filter in insertion order.
func (v *VectorIndex) GetWhere(_ context.Context, filter domain.Filter) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := v.store.Badger().View(func(tx *badgerdb.Txn) error {
		var err error
		entries, err = v.find(tx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Replace deletes records matching filter and inserts entries in one transaction.
func (v *VectorIndex) Replace(_ context.Context, filter domain.Filter, entries []domain.Entry) error {
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	return v.update(func(tx *badgerdb.Txn) error {
		if _, err := v.delete(tx, filter); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return v.insert(tx, entries, dim)
	})
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	count, err := v.store.Count(&entryRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return int(count), nil
}

func (v *VectorIndex) update(fn func(tx *badgerdb.Txn) error) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.store.Badger().Update(fn)
}

func (v *VectorIndex) meta(tx *badgerdb.Txn) (indexMeta, error) {
	var meta indexMeta
	err := v.store.TxGet(tx, metaKey, &meta)
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return indexMeta{}, fmt.Errorf("reading index meta: %w", err)
	}
	return meta, nil
}

func (v *VectorIndex) insert(tx *badgerdb.Txn, entries []domain.Entry, dim int) error {
	meta, err := v.meta(tx)
	if err != nil {
		return err
	}
	if err := domain.CheckDimension(meta.Dimension, dim); err != nil {
		return err
	}

	for i := range entries {
		e := &entries[i]
		record := &entryRecord{
			ID:          e.ID,
			DocumentID:  e.Metadata.DocumentID,
			Filename:    e.Metadata.Filename,
			ContentHash: e.Metadata.ContentHash,
			Position:    e.Position,
			Text:        e.Text,
			Vector:      e.Vector,
			Seq:         meta.NextSeq,
		}
		if err := v.store.TxInsert(tx, e.ID, record); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return fmt.Errorf("%w: entry %q", domain.ErrAlreadyExists, e.ID)
			}
			return fmt.Errorf("saving entry: %w", err)
		}
		meta.NextSeq++
	}

	meta.Dimension = dim
	if err := v.store.TxUpsert(tx, metaKey, &meta); err != nil {
		return fmt.Errorf("saving index meta: %w", err)
	}
	return nil
}

func (v *VectorIndex) delete(tx *badgerdb.Txn, filter domain.Filter) (int, error) {
	var records []entryRecord
	if err := v.store.TxFind(tx, &records, whereQuery(filter)); err != nil {
		return 0, fmt.Errorf("finding entries: %w", err)
	}
	for i := range records {
		if err := v.store.TxDelete(tx, records[i].ID, &entryRecord{}); err != nil {
			return 0, fmt.Errorf("deleting entry %q: %w", records[i].ID, err)
		}
	}

	remaining, err := v.store.TxCount(tx, &entryRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	if remaining == 0 {
		// An empty index accepts any dimension again.
		meta, err := v.meta(tx)
		if err != nil {
			return 0, err
		}
		meta.Dimension = 0
		if err := v.store.TxUpsert(tx, metaKey, &meta); err != nil {
			return 0, fmt.Errorf("saving index meta: %w", err)
		}
	}
	return len(records), nil
}

func (v *VectorIndex) find(tx *badgerdb.Txn, filter domain.Filter) ([]domain.Entry, error) {
	var records []entryRecord
	if err := v.store.TxFind(tx, &records, whereQuery(filter).SortBy("Seq")); err != nil {
		return nil, fmt.Errorf("finding entries: %w", err)
	}

	entries := make([]domain.Entry, len(records))
	for i := range records {
		entries[i] = records[i].toEntry()
	}
	return entries, nil
}

// whereQuery renders filter as a badgerhold query.
func whereQuery(filter domain.Filter) *badgerhold.Query {
	query := badgerhold.Where("ID").Ne("")
	if filter.DocumentID != "" {
		query = query.And("DocumentID").Eq(filter.DocumentID)
	}
	if filter.Filename != "" {
		query = query.And("Filename").Eq(filter.Filename)
	}
	if filter.ContentHash != "" {
		query = query.And("ContentHash").Eq(filter.ContentHash)
	}
	return query
}
