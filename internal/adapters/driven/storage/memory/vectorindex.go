package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory brute-force implementation of driven.VectorIndex.
// Entries are kept in insertion order; Replace runs under a single write lock.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []domain.Entry
	ids     map[string]struct{}
	dim     int
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		ids: make(map[string]struct{}),
	}
}

// Add appends entries, rejecting ids already present.
func (v *VectorIndex) Add(_ context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addLocked(entries, dim)
}

func (v *VectorIndex) addLocked(entries []domain.Entry, dim int) error {
	if err := domain.CheckDimension(v.dim, dim); err != nil {
		return err
	}
	for i := range entries {
		if _, exists := v.ids[entries[i].ID]; exists {
			return fmt.Errorf("%w: entry %q", domain.ErrAlreadyExists, entries[i].ID)
		}
	}

	for i := range entries {
		e := entries[i]
		e.Vector = append([]float32(nil), e.Vector...)
		v.entries = append(v.entries, e)
		v.ids[e.ID] = struct{}{}
	}
	if v.dim == 0 {
		v.dim = dim
	}
	return nil
}

// Query returns the k entries nearest to vector that match filter.
func (v *VectorIndex) Query(_ context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Match, error) {
	if k <= 0 {
		return []domain.Match{}, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if err := domain.CheckDimension(v.dim, len(vector)); err != nil {
		return nil, err
	}
	return domain.Nearest(vector, v.matchingLocked(filter), k), nil
}

// DeleteWhere removes every entry matching filter.
func (v *VectorIndex) DeleteWhere(_ context.Context, filter domain.Filter) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleteLocked(filter), nil
}

func (v *VectorIndex) deleteLocked(filter domain.Filter) int {
	kept := v.entries[:0]
	removed := 0
	for _, e := range v.entries {
		if filter.Matches(e.Metadata) {
			delete(v.ids, e.ID)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	// Clear the tail so removed entries can be collected.
	for i := len(kept); i < len(v.entries); i++ {
		v.entries[i] = domain.Entry{}
	}
	v.entries = kept
	if len(v.entries) == 0 {
		v.dim = 0
	}
	return removed
}

// GetWhere returns every entry matching filter in insertion order.
func (v *VectorIndex) GetWhere(_ context.Context, filter domain.Filter) ([]domain.Entry, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.matchingLocked(filter), nil
}

func (v *VectorIndex) matchingLocked(filter domain.Filter) []domain.Entry {
	result := make([]domain.Entry, 0)
	for _, e := range v.entries {
		if filter.Matches(e.Metadata) {
			result = append(result, e)
		}
	}
	return result
}

// Replace deletes entries matching filter and adds entries atomically.
// On failure the index is left exactly as it was.
func (v *VectorIndex) Replace(_ context.Context, filter domain.Filter, entries []domain.Entry) error {
	dim, err := domain.ValidateBatch(entries)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	snapshot := append([]domain.Entry(nil), v.entries...)
	snapshotDim := v.dim

	v.deleteLocked(filter)
	if err := v.addLocked(entries, dim); err != nil {
		v.entries = snapshot
		v.dim = snapshotDim
		v.ids = make(map[string]struct{}, len(snapshot))
		for _, e := range snapshot {
			v.ids[e.ID] = struct{}{}
		}
		return err
	}
	return nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Close is a no-op for the in-memory index.
func (v *VectorIndex) Close() error {
	return nil
}
