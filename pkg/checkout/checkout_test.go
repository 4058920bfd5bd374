package checkout

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/cart"
	"storefront/pkg/menu"
	"storefront/pkg/order"
	"storefront/pkg/order/memory"
	"storefront/pkg/pricing"
)

func menuItem(id, price string) menu.Item {
	p, _ := decimal.NewFromString(price)
	return menu.Item{ID: id, Name: id, Price: p}
}

func validRequest() Request {
	return Request{
		Details: CustomerDetails{
			Name:    "Jordan Lee",
			Phone:   "5551234567",
			Email:   "jordan@example.com",
			Address: "42 Elm Street",
		},
		PaymentMethod: PaymentCOD,
	}
}

func newTestFlow(t *testing.T) (*Flow, *cart.Cart, *memory.Repository) {
	t.Helper()
	c := cart.New()
	repo := memory.New()
	return NewFlow(c, repo, pricing.DefaultPolicy()), c, repo
}

func TestSubmitEmptyCart(t *testing.T) {
	f, _, repo := newTestFlow(t)
	_, err := f.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, repo.Orders())
	assert.Equal(t, StateEditing, f.State())
}

func TestSubmitValidationFailure(t *testing.T) {
	f, c, repo := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))

	req := validRequest()
	req.Details.Name = ""
	req.Details.Phone = ""
	_, err := f.Submit(context.Background(), req)

	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Phone number is required", errs["phone"])

	// nothing written, cart intact, flow still editable
	assert.Empty(t, repo.Orders())
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, StateEditing, f.State())
}

func TestSubmitSuccess(t *testing.T) {
	f, c, repo := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))
	c.AddItem(menuItem("p1", "10.00"))

	o, err := f.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD\d+$`), o.Number)
	assert.Equal(t, order.StatusConfirmed, o.Status)
	assert.Equal(t, string(PaymentCOD), o.PaymentMethod)
	assert.Empty(t, o.UPIID)
	assert.Equal(t, o.CreatedAt.Add(45*time.Minute), o.EstimatedDelivery)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "20", o.Subtotal.String())
	assert.Equal(t, "3.99", o.DeliveryFee.String())
	assert.Equal(t, "1.6", o.Tax.String())
	assert.Equal(t, "25.59", o.Total.String())

	require.Len(t, repo.Orders(), 1)
	assert.True(t, c.Empty(), "cart should be cleared")
	assert.Equal(t, StateConfirmed, f.State())
}

func TestSubmitFreeDelivery(t *testing.T) {
	f, c, _ := newTestFlow(t)
	c.AddItem(menuItem("p1", "30.00"))

	o, err := f.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, o.DeliveryFee.IsZero())
	assert.Equal(t, "2.4", o.Tax.String())
	assert.Equal(t, "32.4", o.Total.String())
}

func TestSubmitUPIRecordsID(t *testing.T) {
	f, c, _ := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))

	req := validRequest()
	req.PaymentMethod = PaymentUPI
	req.UPIID = "name@upi"
	o, err := f.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "name@upi", o.UPIID)
}

func TestSubmitDefaultsToCOD(t *testing.T) {
	f, c, _ := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))

	req := validRequest()
	req.PaymentMethod = ""
	o, err := f.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(PaymentCOD), o.PaymentMethod)
}

func TestSubmitSinkFailureKeepsCart(t *testing.T) {
	f, c, repo := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))
	repo.FailWith(order.ErrUnavailable)

	_, err := f.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrUnavailable)
	assert.Equal(t, 1, c.ItemCount(), "cart preserved for retry")
	assert.Equal(t, StateEditing, f.State())

	// the retry goes through once the store recovers
	repo.FailWith(nil)
	_, err = f.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Equal(t, StateConfirmed, f.State())
}

// gateSink parks Create until released so a submission can be held in
// flight from the test.
type gateSink struct {
	entered chan struct{}
	release chan struct{}
	inner   *memory.Repository
}

func (s *gateSink) Create(ctx context.Context, o order.Order) error {
	close(s.entered)
	<-s.release
	return s.inner.Create(ctx, o)
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	c := cart.New()
	c.AddItem(menuItem("p1", "10.00"))
	sink := &gateSink{entered: make(chan struct{}), release: make(chan struct{}), inner: memory.New()}
	f := NewFlow(c, sink, pricing.DefaultPolicy())

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), validRequest())
		done <- err
	}()

	<-sink.entered
	assert.Equal(t, StateSubmitting, f.State())

	// the duplicate attempt is ignored while the first write runs
	_, err := f.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, 1, c.ItemCount(), "duplicate attempt must not touch the cart")

	close(sink.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateConfirmed, f.State())
	assert.True(t, c.Empty())
	assert.Len(t, sink.inner.Orders(), 1, "exactly one order written")
}

func TestSubmitAfterConfirmedRejected(t *testing.T) {
	f, c, _ := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))

	_, err := f.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestManagerReplacesConfirmedFlow(t *testing.T) {
	carts := cart.NewRegistry()
	repo := memory.New()
	m := NewManager(carts, repo, pricing.DefaultPolicy())

	f := m.Flow("s1")
	assert.Same(t, f, m.Flow("s1"))

	carts.Get("s1").AddItem(menuItem("p1", "10.00"))
	_, err := f.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	f2 := m.Flow("s1")
	assert.NotSame(t, f, f2)
	assert.Equal(t, StateEditing, f2.State())
}

func TestManagerDropDiscardsFlow(t *testing.T) {
	carts := cart.NewRegistry()
	m := NewManager(carts, memory.New(), pricing.DefaultPolicy())

	f := m.Flow("s1")
	carts.Get("s1").AddItem(menuItem("p1", "10.00"))
	m.Drop("s1")
	carts.Drop("s1")

	f2 := m.Flow("s1")
	assert.NotSame(t, f, f2)
	assert.True(t, carts.Get("s1").Empty(), "dropped session starts with a fresh cart")
}

func TestFlowQuoteTracksCart(t *testing.T) {
	f, c, _ := newTestFlow(t)
	c.AddItem(menuItem("p1", "10.00"))
	q := f.Quote()
	assert.Equal(t, "10", q.Subtotal.String())
	assert.Equal(t, "3.99", q.DeliveryFee.String())

	c.AddItem(menuItem("p2", "20.00"))
	q = f.Quote()
	assert.True(t, q.DeliveryFee.IsZero())
}
