// Package mongo implements an order repository backed by a MongoDB
// collection, the service's hosted document store.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"storefront/pkg/order"
)

// Collection is the name of the orders collection.
const Collection = "orders"

// Repository persists orders in MongoDB.
type Repository struct {
	col *mongo.Collection
}

// New creates a MongoDB repository.
func New(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(Collection)}
}

type lineDoc struct {
	ID          string `bson:"id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Price       string `bson:"price"`
	Image       string `bson:"image"`
	Quantity    int    `bson:"quantity"`
}

type customerDoc struct {
	Name         string `bson:"name"`
	Phone        string `bson:"phone"`
	Email        string `bson:"email"`
	Address      string `bson:"address"`
	Instructions string `bson:"instructions,omitempty"`
}

// orderDoc is the persisted shape. Money travels as decimal strings so the
// database holds the raw computed amounts exactly.
type orderDoc struct {
	ID                string      `bson:"_id"`
	Number            string      `bson:"orderNumber"`
	Items             []lineDoc   `bson:"items"`
	Subtotal          string      `bson:"subtotal"`
	DeliveryFee       string      `bson:"deliveryFee"`
	Tax               string      `bson:"tax"`
	Total             string      `bson:"total"`
	PaymentMethod     string      `bson:"paymentMethod"`
	UPIID             string      `bson:"upiId,omitempty"`
	Customer          customerDoc `bson:"customerDetails"`
	CreatedAt         time.Time   `bson:"timestamp"`
	Status            string      `bson:"status"`
	EstimatedDelivery time.Time   `bson:"estimatedDelivery"`
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	doc := orderDoc{
		ID:            o.ID,
		Number:        o.Number,
		Subtotal:      o.Subtotal.String(),
		DeliveryFee:   o.DeliveryFee.String(),
		Tax:           o.Tax.String(),
		Total:         o.Total.String(),
		PaymentMethod: o.PaymentMethod,
		UPIID:         o.UPIID,
		Customer: customerDoc{
			Name:         o.Customer.Name,
			Phone:        o.Customer.Phone,
			Email:        o.Customer.Email,
			Address:      o.Customer.Address,
			Instructions: o.Customer.Instructions,
		},
		CreatedAt:         o.CreatedAt,
		Status:            o.Status,
		EstimatedDelivery: o.EstimatedDelivery,
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, lineDoc{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price.String(),
			Image:       it.Image,
			Quantity:    it.Quantity,
		})
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: %v", order.ErrUnavailable, err)
	}
	return nil
}
