package state

import (
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// CatalogSnapshot is the most recent full catalog known to the server.
type CatalogSnapshot struct {
	Items               []catalog.Product
	Categories          []catalog.Category
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsStale returns true once refreshes have failed twice in a row.
func (s CatalogSnapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// CatalogStore coordinates concurrent updates to the catalog snapshot.
type CatalogStore struct {
	mu       sync.RWMutex
	snapshot CatalogSnapshot
}

// Update replaces the stored catalog. When err is non-nil the previous data
// is kept and the failure is recorded.
func (s *CatalogStore) Update(items []catalog.Product, categories []catalog.Category, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Items = cloneSlice(items)
	s.snapshot.Categories = cloneSlice(categories)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *CatalogStore) Snapshot() CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneSlice(s.snapshot.Items)
	snap.Categories = cloneSlice(s.snapshot.Categories)
	return snap
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
