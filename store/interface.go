package store

import (
	"context"
	"errors"
)

// GET /inventory        - list the catalog
// GET /cart             - list cart lines
// POST /cart            - add a line (adds to the amount if the id is present)
// PATCH /cart/{id}      - set the amount of a line
// DELETE /cart/{id}     - remove a line

// ErrNotFound is returned when a cart line does not exist.
var ErrNotFound = errors.New("not found")

type Store interface {
	ListInventory(ctx context.Context) ([]InventoryRow, error)
	SeedInventory(ctx context.Context, rows []InventoryRow) error

	ListCart(ctx context.Context) ([]CartRow, error)
	AddCartItem(ctx context.Context, row CartRow) (CartRow, error)
	UpdateCartAmount(ctx context.Context, id int64, amount int) (CartRow, error)
	DeleteCartItem(ctx context.Context, id int64) (CartRow, error)

	Close() error
}

// InventoryRow, CartRow are simple structs representing stored rows
type InventoryRow struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

type CartRow struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Amount  int    `json:"amount"`
}

// DefaultInventory is the catalog a fresh backend starts with.
func DefaultInventory() []InventoryRow {
	return []InventoryRow{
		{ID: 1, Content: "apple"},
		{ID: 2, Content: "orange"},
		{ID: 3, Content: "banana"},
		{ID: 4, Content: "watermelon"},
		{ID: 5, Content: "grape"},
	}
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
