package view

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	models "shopping-cart/model"
)

// MinEditAmount is the lowest quantity the edit form accepts.
const MinEditAmount = 1

// InventoryRow is one entry of .inventory__list with its own counter.
// The counter lives only as long as the row.
type InventoryRow struct {
	mu     sync.Mutex
	item   models.InventoryItem
	amount int
	onAdd  func(models.InventoryItem, int)
}

func (r *InventoryRow) Item() models.InventoryItem { return r.item }

func (r *InventoryRow) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amount
}

// AddDisabled reports whether the add button is disabled.
func (r *InventoryRow) AddDisabled() bool {
	return r.Count() == 0
}

func (r *InventoryRow) Increment() {
	r.mu.Lock()
	r.amount++
	r.mu.Unlock()
}

// Decrement lowers the counter, never below zero.
func (r *InventoryRow) Decrement() {
	r.mu.Lock()
	if r.amount > 0 {
		r.amount--
	}
	r.mu.Unlock()
}

// Add hands the current count to the add handler and resets the counter.
// It does nothing while the button is disabled.
func (r *InventoryRow) Add() {
	r.mu.Lock()
	n := r.amount
	r.amount = 0
	r.mu.Unlock()
	if n == 0 {
		return
	}

	if r.onAdd != nil {
		r.onAdd(r.item, n)
	}
}

// CartRow is one entry of .cart__list.
type CartRow struct {
	item     models.CartItem
	onEdit   func(models.CartItem)
	onDelete func(int64)
}

func (r *CartRow) Item() models.CartItem { return r.item }

// Label is the row text, e.g. "Apple X 1".
func (r *CartRow) Label() string {
	return fmt.Sprintf("%s X %d", r.item.Content, r.item.Amount)
}

func (r *CartRow) Edit() {
	if r.onEdit != nil {
		r.onEdit(r.item)
	}
}

func (r *CartRow) Delete() {
	if r.onDelete != nil {
		r.onDelete(r.item.ID)
	}
}

// EditForm is the content of .edit-form while an item is being edited.
type EditForm struct {
	page   *Page
	mu     sync.Mutex
	item   models.CartItem
	amount int
	onSave func(int64, int)
}

func (f *EditForm) Item() models.CartItem { return f.item }

// Amount is the value currently shown in the quantity input.
func (f *EditForm) Amount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// Save parses raw as the new quantity, passes it to the save handler and
// clears the form. Values below MinEditAmount are raised to it.
func (f *EditForm) Save(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q", raw)
	}
	if n < MinEditAmount {
		n = MinEditAmount
	}

	f.mu.Lock()
	f.amount = n
	f.mu.Unlock()

	if f.onSave != nil {
		f.onSave(f.item.ID, n)
	}
	f.page.clearEdit(f)
	return nil
}
