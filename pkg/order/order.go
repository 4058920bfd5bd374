package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StatusConfirmed is the fixed status every new order carries.
const StatusConfirmed = "confirmed"

// Line is one purchased item, snapshotted from the cart at submission time.
type Line struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
}

// Customer is the delivery contact captured with the order.
type Customer struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Instructions string `json:"instructions,omitempty"`
}

// Order represents a completed purchase. It is written once and never read
// back by the storefront; amounts are the raw computed decimals.
type Order struct {
	ID                string          `json:"id"`
	Number            string          `json:"orderNumber"`
	Items             []Line          `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DeliveryFee       decimal.Decimal `json:"deliveryFee"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	PaymentMethod     string          `json:"paymentMethod"`
	UPIID             string          `json:"upiId,omitempty"`
	Customer          Customer        `json:"customerDetails"`
	CreatedAt         time.Time       `json:"timestamp"`
	Status            string          `json:"status"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

// Repository defines behavior for persisting orders. The storefront only
// ever writes; there is no read-back, update, or delete.
type Repository interface {
	Create(ctx context.Context, o Order) error
}

// ErrUnavailable indicates the order store rejected the write or could not
// be reached. The submission is retryable.
var ErrUnavailable = errors.New("order store unavailable")
