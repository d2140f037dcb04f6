package service

import (
	"context"

	models "shopping-cart/model"
)

type ServiceInterface interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	ListCart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, item models.CartItem) (models.CartItem, error)
	UpdateCartAmount(ctx context.Context, id int64, amount int) (models.CartItem, error)
	RemoveFromCart(ctx context.Context, id int64) (models.CartItem, error)
}
