package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps everything in process. Used for local runs and tests.
type MemoryStore struct {
	mu        sync.Mutex
	inventory map[int64]InventoryRow
	cart      map[int64]CartRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inventory: map[int64]InventoryRow{},
		cart:      map[int64]CartRow{},
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SeedInventory(_ context.Context, rows []InventoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		if _, ok := s.inventory[r.ID]; !ok {
			s.inventory[r.ID] = r
		}
	}
	return nil
}

func (s *MemoryStore) ListInventory(_ context.Context) ([]InventoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InventoryRow, 0, len(s.inventory))
	for _, r := range s.inventory {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListCart(_ context.Context) ([]CartRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartRow, 0, len(s.cart))
	for _, r := range s.cart {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AddCartItem(_ context.Context, row CartRow) (CartRow, error) {
	if row.Amount <= 0 {
		return CartRow{}, errors.New("amount must be > 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.cart[row.ID]; ok {
		cur.Amount += row.Amount
		s.cart[row.ID] = cur
		return cur, nil
	}
	s.cart[row.ID] = row
	return row, nil
}

func (s *MemoryStore) UpdateCartAmount(_ context.Context, id int64, amount int) (CartRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cart[id]
	if !ok {
		return CartRow{}, ErrNotFound
	}
	cur.Amount = amount
	s.cart[id] = cur
	return cur, nil
}

func (s *MemoryStore) DeleteCartItem(_ context.Context, id int64) (CartRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cart[id]
	if !ok {
		return CartRow{}, ErrNotFound
	}
	delete(s.cart, id)
	return cur, nil
}
