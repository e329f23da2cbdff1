// Package cart holds the shopping cart value and the stores that persist it.
package cart

import (
	"dinekart/internal/model"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = 99

// Cart is an ordered list of lines, unique by item id.
// Methods mutate the receiver only; persistence is the Store's job.
type Cart struct {
	Items []model.CartItem `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []model.CartItem{}}
}

func (c *Cart) index(id string) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of an existing line or appends the item with quantity 1.
func (c *Cart) AddItem(item model.CartItem) {
	if i := c.index(item.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	c.Items[i].Quantity = quantity
}

// Quantity returns the quantity of a line, or 0 when absent.
func (c *Cart) Quantity(id string) int {
	if i := c.index(id); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// RemoveItem drops a line.
func (c *Cart) RemoveItem(id string) {
	if i := c.index(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []model.CartItem{}
}

// Total is Σ price × quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a copy of the lines.
func (c *Cart) Snapshot() []model.CartItem {
	items := make([]model.CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Response renders the cart for the API with a freshly computed total.
func (c *Cart) Response() model.CartResponse {
	return model.CartResponse{
		Items:     c.Snapshot(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// Merge folds other into c. Lines present in both keep the larger quantity.
func (c *Cart) Merge(other *Cart) {
	for _, item := range other.Items {
		if i := c.index(item.ID); i >= 0 {
			if item.Quantity > c.Items[i].Quantity {
				c.Items[i].Quantity = item.Quantity
			}
			continue
		}
		c.Items = append(c.Items, item)
	}
}
