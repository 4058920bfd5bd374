// Package memory implements an in-memory menu source.
package memory

import (
	"context"
	"sync"

	"storefront/pkg/menu"
)

// Source provides an in-memory implementation of menu.Source.
type Source struct {
	mu    sync.RWMutex
	items []menu.Item
}

// New creates a source seeded with the given items.
func New(items ...menu.Item) *Source {
	return &Source{items: items}
}

// List returns all menu items.
func (s *Source) List(ctx context.Context) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]menu.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Replace swaps the full item set.
func (s *Source) Replace(items []menu.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}
