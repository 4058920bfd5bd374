// Package cart implements the per-session shopping cart.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront/pkg/menu"
)

// Line is a cart entry. Price, name, description and image are snapshotted
// from the menu item at add time; later menu changes do not affect lines
// already in a cart. The line's ID is the originating menu item's ID, so a
// product can never appear as two separate lines.
type Line struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
}

// Cart holds the lines selected during one browsing session. Lines keep
// their insertion order. A quantity never drops below 1: any operation that
// would produce a non-positive quantity removes the line instead.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*Line
	order []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// AddItem merges the menu item into the cart: an existing line's quantity
// is incremented by one, otherwise a new line with quantity 1 is appended.
func (c *Cart) AddItem(it menu.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ln, ok := c.lines[it.ID]; ok {
		ln.Quantity++
		return
	}
	c.lines[it.ID] = &Line{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Image:       it.Image,
		Quantity:    1,
	}
	c.order = append(c.order, it.ID)
}

// SetQuantity sets the line's quantity. A value of zero or less removes the
// line. Unknown ids are a no-op.
func (c *Cart) SetQuantity(id string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ln, ok := c.lines[id]
	if !ok {
		return
	}
	if qty <= 0 {
		c.remove(id)
		return
	}
	ln.Quantity = qty
}

// RemoveItem deletes the line if present. Removing an absent id is a no-op.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

func (c *Cart) remove(id string) {
	if _, ok := c.lines[id]; !ok {
		return
	}
	delete(c.lines, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// ItemCount returns the number of distinct lines. This is the count shown
// on the cart badge and the summary line.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// UnitCount returns the sum of quantities across all lines.
func (c *Cart) UnitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ln := range c.lines {
		n += ln.Quantity
	}
	return n
}

// Subtotal returns the sum of price times quantity over all lines. The
// value is exact; rounding to two places happens only at display time.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, ln := range c.lines {
		sum = sum.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return sum
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c.ItemCount() == 0
}

// Clear removes every line. Called once after a successful order submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*Line)
	c.order = nil
}
