package state

import (
	"sync"

	models "shopping-cart/model"
)

// State holds the last known inventory and cart and notifies a single
// listener whenever either is assigned.
type State struct {
	mu        sync.Mutex
	inventory []models.InventoryItem
	cart      []models.CartItem
	onChange  func()
}

func New() *State {
	return &State{
		inventory: []models.InventoryItem{},
		cart:      []models.CartItem{},
		onChange:  func() {},
	}
}

// Inventory returns a copy of the stored inventory.
func (s *State) Inventory() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryItem, len(s.inventory))
	copy(out, s.inventory)
	return out
}

// Cart returns a copy of the stored cart.
func (s *State) Cart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// SetInventory replaces the inventory and calls the listener, even when
// the new value equals the old one.
func (s *State) SetInventory(inventory []models.InventoryItem) {
	s.mu.Lock()
	s.inventory = inventory
	cb := s.onChange
	s.mu.Unlock()
	cb()
}

// SetCart replaces the cart and calls the listener.
func (s *State) SetCart(cart []models.CartItem) {
	s.mu.Lock()
	s.cart = cart
	cb := s.onChange
	s.mu.Unlock()
	cb()
}

// Subscribe installs cb as the only listener. A previous listener is dropped.
func (s *State) Subscribe(cb func()) {
	if cb == nil {
		cb = func() {}
	}
	s.mu.Lock()
	s.onChange = cb
	s.mu.Unlock()
}
