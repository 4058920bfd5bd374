package cart

import "testing"

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := r.Get("s1")
	if a == nil {
		t.Fatal("expected a cart")
	}
	if r.Get("s1") != a {
		t.Fatal("expected the same cart for the same session")
	}
	if r.Get("s2") == a {
		t.Fatal("expected distinct carts per session")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 carts, got %d", r.Len())
	}
	r.Drop("s1")
	if r.Len() != 1 {
		t.Fatalf("expected 1 cart after drop, got %d", r.Len())
	}
	if r.Get("s1") == a {
		t.Fatal("expected a fresh cart after drop")
	}
}
