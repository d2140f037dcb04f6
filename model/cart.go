package models

// InventoryItem is a catalog entry owned by the backend.
type InventoryItem struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// CartItem is an inventory item the user intends to buy, with its quantity.
type CartItem struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Amount  int    `json:"amount"`
}

// Deletion is whatever the backend answers to a DELETE. Some servers
// echo the removed item, others send an empty object.
type Deletion map[string]interface{}

// ItemFrom builds the cart entry that adding amount units of item creates.
func ItemFrom(item InventoryItem, amount int) CartItem {
	return CartItem{ID: item.ID, Content: item.Content, Amount: amount}
}
