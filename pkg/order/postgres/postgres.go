// Package postgres implements an order repository on PostgreSQL, kept as an
// alternative to the document store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront/pkg/order"
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// Schema creates the orders table if it does not exist.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	order_number TEXT NOT NULL,
	items JSONB NOT NULL,
	subtotal NUMERIC NOT NULL,
	delivery_fee NUMERIC NOT NULL,
	tax NUMERIC NOT NULL,
	total NUMERIC NOT NULL,
	payment_method TEXT NOT NULL,
	upi_id TEXT,
	customer JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	estimated_delivery TIMESTAMPTZ NOT NULL
)`

// New creates a PostgreSQL repository. The caller must ensure the orders
// table exists, e.g. by executing Schema at startup.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, order_number, items, subtotal, delivery_fee, tax, total,
			payment_method, upi_id, customer, created_at, status, estimated_delivery)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.Number, items,
		o.Subtotal.String(), o.DeliveryFee.String(), o.Tax.String(), o.Total.String(),
		o.PaymentMethod, nullable(o.UPIID), customer,
		o.CreatedAt, o.Status, o.EstimatedDelivery)
	if err != nil {
		return fmt.Errorf("%w: %v", order.ErrUnavailable, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
