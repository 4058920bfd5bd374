// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sync"

	"storefront/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders []order.Order
	fail   error
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{}
}

// Create stores the order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.orders = append(r.orders, o)
	return nil
}

// Orders returns every stored order in creation sequence.
func (r *Repository) Orders() []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out
}

// FailWith makes subsequent Create calls return err; nil restores normal
// operation. Used to exercise write-failure paths.
func (r *Repository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}
