package model

import "github.com/shopspring/decimal"

// CartItem is one line of a cart, and the snapshot copied into an order.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// LineTotal returns price × quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartResponse is the API view of a cart.
type CartResponse struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// AddCartItemRequest adds one unit of a menu item to the cart.
type AddCartItemRequest struct {
	MenuItemID string `json:"menuItemId"`
}

// UpdateCartItemRequest sets the quantity of a cart line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}
