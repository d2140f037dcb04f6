package state

import (
	"reflect"
	"testing"

	models "shopping-cart/model"
)

func TestNewStartsEmpty(t *testing.T) {
	s := New()
	if got := s.Inventory(); len(got) != 0 {
		t.Fatalf("expected empty inventory, got %+v", got)
	}
	if got := s.Cart(); len(got) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
	// no listener yet; assignment must not panic
	s.SetCart([]models.CartItem{{ID: 1, Content: "Apple", Amount: 1}})
}

func TestEveryAssignmentNotifies(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	cart := []models.CartItem{{ID: 1, Content: "Apple", Amount: 2}}
	s.SetCart(cart)
	s.SetCart(cart)
	s.SetInventory([]models.InventoryItem{{ID: 1, Content: "Apple"}})

	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}
	if !reflect.DeepEqual(s.Cart(), cart) {
		t.Fatalf("unexpected cart: %+v", s.Cart())
	}
}

func TestSubscribeReplacesPreviousListener(t *testing.T) {
	s := New()
	first, second := 0, 0
	s.Subscribe(func() { first++ })
	s.Subscribe(func() { second++ })

	s.SetInventory(nil)

	if first != 0 {
		t.Fatalf("replaced listener was called %d times", first)
	}
	if second != 1 {
		t.Fatalf("expected current listener once, got %d", second)
	}
}

func TestListenerSeesNewValue(t *testing.T) {
	s := New()
	var seen []models.CartItem
	s.Subscribe(func() { seen = s.Cart() })

	s.SetCart([]models.CartItem{{ID: 7, Content: "Pear", Amount: 3}})

	if len(seen) != 1 || seen[0].ID != 7 || seen[0].Amount != 3 {
		t.Fatalf("listener saw %+v", seen)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := New()
	s.SetInventory([]models.InventoryItem{{ID: 1, Content: "Apple"}})

	snap := s.Inventory()
	snap[0].Content = "changed"

	if s.Inventory()[0].Content != "Apple" {
		t.Fatalf("snapshot mutation leaked into state")
	}
}
