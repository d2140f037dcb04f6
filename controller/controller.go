package controller

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	models "shopping-cart/model"
	"shopping-cart/state"
)

// Controller owns the state and turns user actions into API calls. Every
// mutation is followed by a refetch of the cart, which is then published.
type Controller struct {
	api   API
	view  Renderer
	state *state.State
	log   logrus.FieldLogger

	// base is the context renderer callbacks run under.
	base context.Context
}

func New(api API, view Renderer, log logrus.FieldLogger) *Controller {
	return &Controller{
		api:   api,
		view:  view,
		state: state.New(),
		log:   log,
		base:  context.Background(),
	}
}

// State exposes the container for reads.
func (c *Controller) State() *state.State { return c.state }

// Init loads inventory and cart, installs the render listener and attaches
// the checkout handler. ctx also becomes the context for later callbacks.
func (c *Controller) Init(ctx context.Context) error {
	c.base = ctx
	c.state.Subscribe(c.render)
	c.view.RenderCheckout(c.handleCheckout)

	// the two loads are independent; a failed one leaves its field empty
	var firstErr error
	if inventory, err := c.api.FetchInventory(ctx); err != nil {
		firstErr = errors.Wrap(err, "init: fetch inventory")
	} else {
		c.state.SetInventory(inventory)
	}

	if cart, err := c.api.FetchCart(ctx); err != nil {
		if firstErr == nil {
			firstErr = errors.Wrap(err, "init: fetch cart")
		}
	} else {
		c.state.SetCart(cart)
	}
	return firstErr
}

func (c *Controller) render() {
	c.view.RenderInventory(c.state.Inventory(), c.handleAdd)
	c.view.RenderCart(c.state.Cart(), c.RequestEdit, c.handleDelete)
}

// AddToCart adds amount units of item, then republishes the cart.
func (c *Controller) AddToCart(ctx context.Context, item models.InventoryItem, amount int) error {
	if _, err := c.api.AddToCart(ctx, models.ItemFrom(item, amount)); err != nil {
		return errors.Wrap(err, "add to cart")
	}
	return c.refreshCart(ctx)
}

// RequestEdit opens the edit form for item.
func (c *Controller) RequestEdit(item models.CartItem) {
	c.view.RenderEditForm(item, c.handleSave)
}

// SaveEdit sets the amount of a cart line, then republishes the cart.
func (c *Controller) SaveEdit(ctx context.Context, id int64, amount int) error {
	if _, err := c.api.UpdateCartAmount(ctx, id, amount); err != nil {
		return errors.Wrap(err, "update cart")
	}
	return c.refreshCart(ctx)
}

// Delete removes a cart line, then republishes the cart.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if _, err := c.api.RemoveFromCart(ctx, id); err != nil {
		return errors.Wrap(err, "delete from cart")
	}
	return c.refreshCart(ctx)
}

// Checkout clears the cart on the server, then republishes it.
func (c *Controller) Checkout(ctx context.Context) error {
	if _, err := c.api.Checkout(ctx); err != nil {
		return errors.Wrap(err, "checkout")
	}
	return c.refreshCart(ctx)
}

func (c *Controller) refreshCart(ctx context.Context) error {
	cart, err := c.api.FetchCart(ctx)
	if err != nil {
		return errors.Wrap(err, "refetch cart")
	}
	c.state.SetCart(cart)
	return nil
}

// --- renderer callbacks ---
// Failures leave the state unpublished; they are only logged.

func (c *Controller) handleAdd(item models.InventoryItem, amount int) {
	if err := c.AddToCart(c.base, item, amount); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"id": item.ID, "amount": amount}).Error("add to cart failed")
	}
}

func (c *Controller) handleSave(id int64, amount int) {
	if err := c.SaveEdit(c.base, id, amount); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"id": id, "amount": amount}).Error("edit failed")
	}
}

func (c *Controller) handleDelete(id int64) {
	if err := c.Delete(c.base, id); err != nil {
		c.log.WithError(err).WithField("id", id).Error("delete failed")
	}
}

func (c *Controller) handleCheckout() {
	if err := c.Checkout(c.base); err != nil {
		c.log.WithError(err).Error("checkout failed")
	}
}
