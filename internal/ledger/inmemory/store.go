package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/report-uploader/internal/ledger"
)

// Store is an in-memory implementation of ledger.Store.
// Records are lost when the process exits; it is meant for tests and dry runs.
type Store struct {
	mu      sync.RWMutex
	records map[ledger.Key]ledger.Record
}

// NewStore creates an empty in-memory ledger.
func NewStore() *Store {
	return &Store{
		records: make(map[ledger.Key]ledger.Record),
	}
}

// IsRecorded implements the ledger.Store interface.
func (s *Store) IsRecorded(ctx context.Context, key ledger.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.records[key]
	return exists, nil
}

// Get implements the ledger.Store interface.
// It returns a copy so callers cannot modify stored state.
func (s *Store) Get(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, key)
	}
	return &rec, nil
}

// Record implements the ledger.Store interface.
func (s *Store) Record(ctx context.Context, key ledger.Key, rec ledger.Record) error {
	if key == "" {
		return fmt.Errorf("ledger key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = rec
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ensure Store implements the ledger.Store interface.
var _ ledger.Store = (*Store)(nil)
