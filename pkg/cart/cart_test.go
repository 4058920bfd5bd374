package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"storefront/pkg/menu"
)

func item(id, name, price string) menu.Item {
	p, _ := decimal.NewFromString(price)
	return menu.Item{ID: id, Name: name, Price: p}
}

func TestAddItemMergesLines(t *testing.T) {
	c := New()
	c.AddItem(item("p1", "Pizza", "10.00"))
	c.AddItem(item("p1", "Pizza", "10.00"))

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
}

func TestCountsAndSubtotal(t *testing.T) {
	c := New()
	c.AddItem(item("p1", "Pizza", "10.00"))
	c.AddItem(item("p1", "Pizza", "10.00"))
	c.AddItem(item("p2", "Salad", "8.50"))

	if got := c.ItemCount(); got != 2 {
		t.Fatalf("item count: expected 2 distinct lines, got %d", got)
	}
	if got := c.UnitCount(); got != 3 {
		t.Fatalf("unit count: expected 3, got %d", got)
	}
	want, _ := decimal.NewFromString("28.50")
	if !c.Subtotal().Equal(want) {
		t.Fatalf("subtotal: expected %s, got %s", want, c.Subtotal())
	}
}

func TestSetQuantity(t *testing.T) {
	c := New()
	c.AddItem(item("p1", "Pizza", "10.00"))

	c.SetQuantity("p1", 5)
	if got := c.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	// unknown id is a no-op
	c.SetQuantity("nope", 3)
	if got := c.ItemCount(); got != 1 {
		t.Fatalf("expected 1 line, got %d", got)
	}
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		c := New()
		c.AddItem(item("p1", "Pizza", "10.00"))
		c.SetQuantity("p1", qty)
		if !c.Empty() {
			t.Fatalf("quantity %d: expected empty cart", qty)
		}
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	c := New()
	c.AddItem(item("p1", "Pizza", "10.00"))
	c.RemoveItem("p1")
	c.RemoveItem("p1")
	if !c.Empty() {
		t.Fatal("expected empty cart")
	}
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := New()
	c.AddItem(item("b", "Burger", "7.00"))
	c.AddItem(item("a", "Avocado Toast", "6.00"))
	c.AddItem(item("b", "Burger", "7.00"))

	lines := c.Lines()
	if lines[0].ID != "b" || lines[1].ID != "a" {
		t.Fatalf("unexpected order: %s, %s", lines[0].ID, lines[1].ID)
	}

	c.RemoveItem("b")
	c.AddItem(item("b", "Burger", "7.00"))
	lines = c.Lines()
	if lines[0].ID != "a" || lines[1].ID != "b" {
		t.Fatalf("re-added line should be last: %s, %s", lines[0].ID, lines[1].ID)
	}
}

func TestSnapshotPriceSurvivesMenuChange(t *testing.T) {
	it := item("p1", "Pizza", "10.00")
	c := New()
	c.AddItem(it)

	it.Price, _ = decimal.NewFromString("12.00")
	want, _ := decimal.NewFromString("10.00")
	if !c.Lines()[0].Price.Equal(want) {
		t.Fatalf("expected snapshotted price %s, got %s", want, c.Lines()[0].Price)
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(item("p1", "Pizza", "10.00"))
	c.Clear()
	if !c.Empty() || !c.Subtotal().IsZero() {
		t.Fatal("expected cleared cart")
	}
}
