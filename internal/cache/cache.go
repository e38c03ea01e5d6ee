// Package cache holds the product list shared between listing views so a
// returning view can skip the network.
package cache

import (
	"context"
	"sync"

	"github.com/five82/shelf/internal/catalog"
)

// Cache is a single-slot store for the most recently loaded product list.
type Cache interface {
	// Has reports whether a non-empty list is stored.
	Has(ctx context.Context) bool
	Get(ctx context.Context) ([]catalog.Product, error)
	Set(ctx context.Context, items []catalog.Product) error
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

// Memory keeps the list in process memory. The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	items []catalog.Product
}

// Has reports whether a non-empty list is stored.
func (m *Memory) Has(context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items) > 0
}

// Get returns a copy of the stored list.
func (m *Memory) Get(context.Context) ([]catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items), nil
}

// Set replaces the stored list.
func (m *Memory) Set(_ context.Context, items []catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = cloneItems(items)
	return nil
}

func cloneItems(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}
