package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCartLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.AddCartItem(ctx, CartRow{ID: 2, Content: "orange", Amount: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddCartItem(ctx, CartRow{ID: 1, Content: "apple", Amount: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.AddCartItem(ctx, CartRow{ID: 1, Content: "apple", Amount: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.Amount != 5 {
		t.Fatalf("expected amounts to accumulate to 5, got %d", got.Amount)
	}

	cart, _ := s.ListCart(ctx)
	if len(cart) != 2 || cart[0].ID != 1 || cart[1].ID != 2 {
		t.Fatalf("expected cart ordered by id, got %+v", cart)
	}

	if _, err := s.UpdateCartAmount(ctx, 2, 9); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.UpdateCartAmount(ctx, 42, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	deleted, err := s.DeleteCartItem(ctx, 2)
	if err != nil || deleted.Amount != 9 {
		t.Fatalf("unexpected delete result %+v, %v", deleted, err)
	}
	if _, err := s.DeleteCartItem(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreRejectsNonPositiveAmount(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.AddCartItem(context.Background(), CartRow{ID: 1, Content: "apple", Amount: -1}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMemoryStoreSeedKeepsExisting(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.SeedInventory(ctx, []InventoryRow{{ID: 1, Content: "apple"}})
	_ = s.SeedInventory(ctx, DefaultInventory())

	inv, _ := s.ListInventory(ctx)
	if len(inv) != len(DefaultInventory()) {
		t.Fatalf("expected %d items, got %d", len(DefaultInventory()), len(inv))
	}
	if inv[0].Content != "apple" {
		t.Fatalf("unexpected first item %+v", inv[0])
	}
}
