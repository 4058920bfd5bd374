// Package mongo implements a menu source backed by a MongoDB collection.
package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/pkg/menu"
)

// Collection is the name of the menu collection.
const Collection = "menuItems"

// Source reads menu items from MongoDB.
type Source struct {
	col *mongo.Collection
}

// New creates a MongoDB-backed menu source.
func New(db *mongo.Database) *Source {
	return &Source{col: db.Collection(Collection)}
}

type itemDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Price       string `bson:"price"`
	Category    string `bson:"category,omitempty"`
	Image       string `bson:"image"`
}

// List fetches every menu item. Prices are stored as decimal strings to
// avoid floating-point drift in the database.
func (s *Source) List(ctx context.Context) ([]menu.Item, error) {
	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUnavailable, err)
	}
	defer cur.Close(ctx)

	var items []menu.Item
	for cur.Next(ctx) {
		var doc itemDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode menu item: %w", err)
		}
		price, err := decimal.NewFromString(doc.Price)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: bad price %q: %w", doc.ID, doc.Price, err)
		}
		items = append(items, menu.Normalize(menu.Item{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			Price:       price,
			Category:    doc.Category,
			Image:       doc.Image,
		}))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUnavailable, err)
	}
	return items, nil
}
