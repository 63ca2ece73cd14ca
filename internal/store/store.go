// Package store holds the single in-memory sales dataset. There is exactly
// one logical dataset at a time; each upload replaces it wholesale.
package store

import (
	"sync"

	"github.com/google/uuid"

	"sales-dashboard/internal/models"
)

// Store keeps normalized records in insertion order. All mutation and
// snapshot reads serialize on one RWMutex, so a reader always sees either
// the pre- or post-upload dataset, never a mix.
type Store struct {
	mu      sync.RWMutex
	records []models.SalesRecord
}

func New() *Store {
	return &Store{}
}

// ReplaceAll atomically discards the previous dataset and inserts the given
// records, assigning each a fresh identifier. Returns the stored copies.
func (s *Store) ReplaceAll(records []models.SalesRecord) []models.SalesRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
	return s.insertLocked(records)
}

// Insert appends records without clearing, assigning fresh identifiers.
func (s *Store) Insert(records []models.SalesRecord) []models.SalesRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(records)
}

func (s *Store) insertLocked(records []models.SalesRecord) []models.SalesRecord {
	inserted := make([]models.SalesRecord, 0, len(records))
	for _, rec := range records {
		rec.ID = uuid.NewString()
		s.records = append(s.records, rec)
		inserted = append(inserted, rec)
	}
	return inserted
}

// All returns a point-in-time snapshot of every stored record, in insertion
// order. The copy is the caller's to keep; later mutations do not touch it.
func (s *Store) All() []models.SalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.SalesRecord, len(s.records))
	copy(snapshot, s.records)
	return snapshot
}

// Clear empties the store. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
