package memory

import (
	"context"
	"testing"

	"storefront/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o := order.Order{ID: "1", Number: "ORD1748779200000042", Status: order.StatusConfirmed}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	got := repo.Orders()
	if len(got) != 1 {
		t.Fatalf("expected 1 order, got %d", len(got))
	}
	if got[0].Number != o.Number {
		t.Fatalf("expected %s, got %s", o.Number, got[0].Number)
	}
}

func TestRepositoryFailWith(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.FailWith(order.ErrUnavailable)
	if err := repo.Create(ctx, order.Order{ID: "1"}); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.Orders()) != 0 {
		t.Fatal("failed create must not store the order")
	}
	repo.FailWith(nil)
	if err := repo.Create(ctx, order.Order{ID: "1"}); err != nil {
		t.Fatalf("create after recovery: %v", err)
	}
}
