package controller

import (
	"context"

	models "shopping-cart/model"
)

// API is the part of the REST client the coordinator drives.
type API interface {
	FetchInventory(ctx context.Context) ([]models.InventoryItem, error)
	FetchCart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, item models.CartItem) (models.CartItem, error)
	UpdateCartAmount(ctx context.Context, id int64, amount int) (models.CartItem, error)
	RemoveFromCart(ctx context.Context, id int64) (models.Deletion, error)
	Checkout(ctx context.Context) ([]models.Deletion, error)
}

// Renderer draws state onto the page and attaches interaction handlers.
type Renderer interface {
	RenderInventory(items []models.InventoryItem, onAdd func(models.InventoryItem, int))
	RenderCart(items []models.CartItem, onEdit func(models.CartItem), onDelete func(int64))
	RenderEditForm(item models.CartItem, onSave func(id int64, amount int))
	RenderCheckout(onCheckout func())
}
