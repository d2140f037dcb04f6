package service

import (
	"context"

	"github.com/pkg/errors"

	models "shopping-cart/model"
	"shopping-cart/store"
)

// ValidationError marks a request the caller got wrong.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalid(msg string) error { return &ValidationError{msg: msg} }

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.InventoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.InventoryItem{ID: r.ID, Content: r.Content})
	}
	return out, nil
}

func (s *Service) ListCart(ctx context.Context) ([]models.CartItem, error) {
	rows, err := s.store.ListCart(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CartItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, toItem(r))
	}
	return out, nil
}

func (s *Service) AddToCart(ctx context.Context, item models.CartItem) (models.CartItem, error) {
	if item.ID <= 0 {
		return models.CartItem{}, invalid("id must be > 0")
	}
	if item.Content == "" {
		return models.CartItem{}, invalid("content is required")
	}
	if item.Amount <= 0 {
		return models.CartItem{}, invalid("amount must be > 0")
	}
	row, err := s.store.AddCartItem(ctx, store.CartRow{ID: item.ID, Content: item.Content, Amount: item.Amount})
	if err != nil {
		return models.CartItem{}, err
	}
	return toItem(row), nil
}

func (s *Service) UpdateCartAmount(ctx context.Context, id int64, amount int) (models.CartItem, error) {
	if amount <= 0 {
		return models.CartItem{}, invalid("amount must be > 0")
	}
	row, err := s.store.UpdateCartAmount(ctx, id, amount)
	if err != nil {
		return models.CartItem{}, err
	}
	return toItem(row), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, id int64) (models.CartItem, error) {
	row, err := s.store.DeleteCartItem(ctx, id)
	if err != nil {
		return models.CartItem{}, err
	}
	return toItem(row), nil
}

func toItem(r store.CartRow) models.CartItem {
	return models.CartItem{ID: r.ID, Content: r.Content, Amount: r.Amount}
}
