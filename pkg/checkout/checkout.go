// Package checkout turns a cart into a validated, priced order and submits
// it to the order store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/cart"
	"storefront/pkg/order"
	"storefront/pkg/pricing"
)

// State is the checkout flow's position: Editing until validation passes,
// Submitting while the write is in flight, Confirmed after success.
// Confirmed is terminal for a flow instance.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateConfirmed
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	}
	return "unknown"
}

var (
	// ErrEmptyCart means checkout was entered with nothing in the cart;
	// the caller should send the customer back to the cart view.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitInFlight means a submission is already running; the
	// duplicate attempt is ignored.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrAlreadyConfirmed means this flow already produced an order.
	ErrAlreadyConfirmed = errors.New("order already placed")
)

// SubmitFailedMessage is the single banner shown when the order write
// fails. The cart and the customer's details are left untouched for retry.
const SubmitFailedMessage = "Failed to place order. Please try again."

// Request is one submission attempt.
type Request struct {
	Details       CustomerDetails `json:"customerDetails"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	UPIID         string          `json:"upiId"`
}

// Flow drives one checkout for one cart. It serializes submission attempts
// so a second submit while one is in flight is ignored.
type Flow struct {
	cart   *cart.Cart
	sink   order.Repository
	policy pricing.Policy

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	state State
}

// NewFlow creates a flow in the Editing state over the given cart.
func NewFlow(c *cart.Cart, sink order.Repository, policy pricing.Policy) *Flow {
	return &Flow{
		cart:   c,
		sink:   sink,
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Quote prices the cart's current contents under the flow's policy.
func (f *Flow) Quote() pricing.Quote {
	return f.policy.Quote(f.cart.Subtotal())
}

// Submit validates the request, prices the cart, writes the order and
// clears the cart on success. Validation failures come back as FieldErrors
// with every failing field populated. A store failure leaves the cart and
// the flow state untouched so the customer can retry.
func (f *Flow) Submit(ctx context.Context, req Request) (order.Order, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return order.Order{}, ErrSubmitInFlight
	case StateConfirmed:
		f.mu.Unlock()
		return order.Order{}, ErrAlreadyConfirmed
	}
	if f.cart.Empty() {
		f.mu.Unlock()
		return order.Order{}, ErrEmptyCart
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = PaymentCOD
	}
	if errs := Validate(req.Details, req.PaymentMethod, req.UPIID); errs != nil {
		f.mu.Unlock()
		return order.Order{}, errs
	}

	f.state = StateSubmitting
	now := f.now()
	quote := f.policy.Quote(f.cart.Subtotal())
	o := order.Order{
		ID:            f.newID(),
		Number:        pricing.OrderNumber(now),
		Items:         snapshotLines(f.cart),
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		Tax:           quote.Tax,
		Total:         quote.Total,
		PaymentMethod: string(req.PaymentMethod),
		Customer: order.Customer{
			Name:         req.Details.Name,
			Phone:        req.Details.Phone,
			Email:        req.Details.Email,
			Address:      req.Details.Address,
			Instructions: req.Details.Instructions,
		},
		CreatedAt:         now,
		Status:            order.StatusConfirmed,
		EstimatedDelivery: pricing.EstimatedDelivery(now),
	}
	if req.PaymentMethod == PaymentUPI {
		o.UPIID = req.UPIID
	}
	f.mu.Unlock()

	err := f.sink.Create(ctx, o)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	f.cart.Clear()
	f.state = StateConfirmed
	return o, nil
}

func snapshotLines(c *cart.Cart) []order.Line {
	lines := c.Lines()
	out := make([]order.Line, 0, len(lines))
	for _, ln := range lines {
		out = append(out, order.Line{
			ID:          ln.ID,
			Name:        ln.Name,
			Description: ln.Description,
			Price:       ln.Price,
			Image:       ln.Image,
			Quantity:    ln.Quantity,
		})
	}
	return out
}

// Manager hands out one flow per browsing session. A confirmed flow is
// replaced on next use, the way a fresh checkout screen replaces a
// finished one.
type Manager struct {
	carts  *cart.Registry
	sink   order.Repository
	policy pricing.Policy

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewManager creates a manager over the session cart registry.
func NewManager(carts *cart.Registry, sink order.Repository, policy pricing.Policy) *Manager {
	return &Manager{
		carts:  carts,
		sink:   sink,
		policy: policy,
		flows:  make(map[string]*Flow),
	}
}

// Flow returns the session's active flow, creating a fresh one if none
// exists or the previous one finished.
func (m *Manager) Flow(sessionID string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[sessionID]
	if !ok || f.State() == StateConfirmed {
		f = NewFlow(m.carts.Get(sessionID), m.sink, m.policy)
		m.flows[sessionID] = f
	}
	return f
}

// Drop discards the session's flow.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, sessionID)
}
