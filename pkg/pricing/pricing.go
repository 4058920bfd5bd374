// Package pricing holds the storefront's pricing policy and order-side
// helpers: delivery-fee threshold, tax, totals, order numbers and delivery
// estimates.
package pricing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the pricing policy applied to every quote. One formula is
// authoritative across the cart and checkout views.
type Policy struct {
	TaxRate               decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// DefaultPolicy returns the standard policy: 8% tax, $3.99 delivery, free
// delivery at $25.00 and above.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               decimal.NewFromFloat(0.08),
		DeliveryFee:           decimal.NewFromFloat(3.99),
		FreeDeliveryThreshold: decimal.NewFromFloat(25.00),
	}
}

// Quote is a priced order breakdown. Amounts are raw decimals; round them
// with Round2 only when rendering.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	FreeDelivery bool            `json:"freeDelivery"`
}

// Quote prices the given subtotal under the policy.
func (p Policy) Quote(subtotal decimal.Decimal) Quote {
	fee := p.DeliveryFee
	free := subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold)
	if free {
		fee = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)
	return Quote{
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Tax:          tax,
		Total:        subtotal.Add(fee).Add(tax),
		FreeDelivery: free,
	}
}

// Rounded returns the quote with every amount rounded to two places, for
// display.
func (q Quote) Rounded() Quote {
	q.Subtotal = Round2(q.Subtotal)
	q.DeliveryFee = Round2(q.DeliveryFee)
	q.Tax = Round2(q.Tax)
	q.Total = Round2(q.Total)
	return q
}

// Round2 rounds a monetary amount to two fraction digits.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatPrice renders an amount with a currency symbol, e.g. "$25.59".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// orderNumberPrefix is the fixed prefix on every generated order number.
const orderNumberPrefix = "ORD"

// OrderNumber generates an order number from the millisecond timestamp and
// a 3-digit random suffix. Uniqueness is probabilistic, not guaranteed.
func OrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%d%03d", orderNumberPrefix, now.UnixMilli(), rand.Intn(1000))
}

// deliveryLeadTime is how far out a confirmed order's delivery is estimated.
const deliveryLeadTime = 45 * time.Minute

// EstimatedDelivery returns the estimated delivery timestamp for an order
// confirmed at the given time.
func EstimatedDelivery(confirmedAt time.Time) time.Time {
	return confirmedAt.Add(deliveryLeadTime)
}

// ETA is a delivery window in minutes, e.g. "30-45 minutes".
type ETA struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeliveryETA computes the delivery window from the kitchen's preparation
// time plus a fixed 15 minute transit estimate and a 15 minute buffer.
func DeliveryETA(prepMinutes int) ETA {
	min := prepMinutes + 15
	return ETA{Min: min, Max: min + 15}
}

// Display renders the window for customers.
func (e ETA) Display() string {
	return fmt.Sprintf("%d-%d minutes", e.Min, e.Max)
}

// FormatDate renders a timestamp for customer-facing messages.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006, 3:04 PM")
}
