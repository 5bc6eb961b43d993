package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/batch"
	"github.com/xraph/batch/job"
	"github.com/xraph/batch/store"
)

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu      sync.RWMutex
	records map[string]job.Record
	closed  bool
}

// New returns a new empty Store.
func New() *Store {
	return &Store{records: make(map[string]job.Record)}
}

// ──────────────────────────────────────────────────
// Lifecycle — Ping / Close
// ──────────────────────────────────────────────────

// Ping succeeds until the store is closed.
func (m *Store) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return batch.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed; later calls fail with batch.ErrStoreClosed.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ──────────────────────────────────────────────────
// Status Store
// ──────────────────────────────────────────────────

// SetStatus stores a copy of rec.
func (m *Store) SetStatus(_ context.Context, rec *job.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return batch.ErrStoreClosed
	}
	m.records[rec.ID] = *rec
	return nil
}

// GetStatus returns a copy of the record for jobID.
func (m *Store) GetStatus(_ context.Context, jobID string) (*job.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, batch.ErrStoreClosed
	}
	rec, ok := m.records[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", batch.ErrJobNotFound, jobID)
	}
	return &rec, nil
}

// DeleteStatus removes the record for jobID.
func (m *Store) DeleteStatus(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return batch.ErrStoreClosed
	}
	delete(m.records, jobID)
	return nil
}

// ListByState returns copies of the records in the given state, ordered by
// job ID. Job IDs are time-sortable, so this is creation order.
func (m *Store) ListByState(_ context.Context, state job.State) ([]*job.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, batch.ErrStoreClosed
	}
	var out []*job.Record
	for _, rec := range m.records {
		if rec.Status.State() == state {
			cp := rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
