package view

import (
	"embed"
	"html/template"
	"io"
	"sync"

	models "shopping-cart/model"
)

//go:embed templates/*
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.gohtml"))

// Page is the visible element tree. Each Render call fully replaces the
// content of one region; handlers attached by the renderer are the only
// way interactions reach the coordinator.
type Page struct {
	mu        sync.Mutex
	inventory []*InventoryRow
	cart      []*CartRow
	edit      *EditForm
	checkout  []func()
}

func NewPage() *Page {
	return &Page{}
}

// RenderInventory rebuilds the .inventory__list region. Every row gets a
// fresh counter at zero.
func (p *Page) RenderInventory(items []models.InventoryItem, onAdd func(models.InventoryItem, int)) {
	rows := make([]*InventoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, &InventoryRow{item: item, onAdd: onAdd})
	}
	p.mu.Lock()
	p.inventory = rows
	p.mu.Unlock()
}

// RenderCart rebuilds the .cart__list region.
func (p *Page) RenderCart(items []models.CartItem, onEdit func(models.CartItem), onDelete func(int64)) {
	rows := make([]*CartRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, &CartRow{item: item, onEdit: onEdit, onDelete: onDelete})
	}
	p.mu.Lock()
	p.cart = rows
	p.mu.Unlock()
}

// RenderEditForm replaces the .edit-form region with a quantity editor
// for item.
func (p *Page) RenderEditForm(item models.CartItem, onSave func(id int64, amount int)) {
	form := &EditForm{page: p, item: item, amount: item.Amount, onSave: onSave}
	p.mu.Lock()
	p.edit = form
	p.mu.Unlock()
}

// RenderCheckout attaches a click handler to the .checkout-btn control.
// Handlers accumulate; callers attach once.
func (p *Page) RenderCheckout(onCheckout func()) {
	p.mu.Lock()
	p.checkout = append(p.checkout, onCheckout)
	p.mu.Unlock()
}

// ClickCheckout fires the handlers attached to the checkout control.
func (p *Page) ClickCheckout() {
	p.mu.Lock()
	handlers := append([]func(){}, p.checkout...)
	p.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

// InventoryRow finds the rendered inventory row for id.
func (p *Page) InventoryRow(id int64) (*InventoryRow, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.inventory {
		if r.item.ID == id {
			return r, true
		}
	}
	return nil, false
}

// CartRow finds the rendered cart row for id.
func (p *Page) CartRow(id int64) (*CartRow, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.cart {
		if r.item.ID == id {
			return r, true
		}
	}
	return nil, false
}

// EditForm returns the open edit form, if any.
func (p *Page) EditForm() (*EditForm, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.edit, p.edit != nil
}

// InventoryRows returns the rows currently in .inventory__list.
func (p *Page) InventoryRows() []*InventoryRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*InventoryRow(nil), p.inventory...)
}

// CartRows returns the rows currently in .cart__list.
func (p *Page) CartRows() []*CartRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*CartRow(nil), p.cart...)
}

func (p *Page) clearEdit(form *EditForm) {
	p.mu.Lock()
	if p.edit == form {
		p.edit = nil
	}
	p.mu.Unlock()
}

// --- html output ---

type inventoryRowData struct {
	ID          int64
	Content     string
	Amount      int
	AddDisabled bool
}

type cartRowData struct {
	ID    int64
	Label string
}

type editFormData struct {
	Content string
	Amount  int
	Min     int
}

type pageData struct {
	Inventory []inventoryRowData
	Cart      []cartRowData
	Edit      *editFormData
}

// WriteHTML renders the whole page.
func (p *Page) WriteHTML(w io.Writer) error {
	var data pageData
	for _, r := range p.InventoryRows() {
		n := r.Count()
		data.Inventory = append(data.Inventory, inventoryRowData{
			ID:          r.item.ID,
			Content:     r.item.Content,
			Amount:      n,
			AddDisabled: n == 0,
		})
	}
	for _, r := range p.CartRows() {
		data.Cart = append(data.Cart, cartRowData{ID: r.item.ID, Label: r.Label()})
	}
	if f, ok := p.EditForm(); ok {
		data.Edit = &editFormData{Content: f.item.Content, Amount: f.Amount(), Min: MinEditAmount}
	}
	return pageTemplate.ExecuteTemplate(w, "page.gohtml", data)
}
