package menu

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to items whose source record carries no category.
const DefaultCategory = "Other"

// Item represents a product offered on the menu. Items are read-only from the
// storefront's perspective; the service never writes menu data.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// Source defines behavior for reading the menu.
type Source interface {
	List(ctx context.Context) ([]Item, error)
}

// ErrUnavailable indicates the menu source could not be reached. Callers
// surface it as a retryable condition.
var ErrUnavailable = errors.New("menu source unavailable")

// Normalize fills in defaults the source may omit.
func Normalize(it Item) Item {
	if it.Category == "" {
		it.Category = DefaultCategory
	}
	return it
}

// GroupByCategory buckets items under their category, applying the default
// for uncategorized items. Category names are returned sorted so responses
// are stable.
func GroupByCategory(items []Item) (map[string][]Item, []string) {
	groups := make(map[string][]Item)
	for _, it := range items {
		it = Normalize(it)
		groups[it.Category] = append(groups[it.Category], it)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return groups, names
}
