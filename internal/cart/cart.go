// Package cart aggregates priced lines into an order draft.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned when a line id is not in the cart.
var ErrItemNotFound = errors.New("cart item not found")

// Item is one customized cart line. UnitPrice and TotalPrice are computed
// by the pricing package before the line is added.
type Item struct {
	ID            string
	ComboID       uuid.UUID
	ComboName     string
	SizeID        *uuid.UUID
	SizeName      string
	Flavors       []string
	SecondFlavors []string
	Extras        []ExtraSelection
	Observations  string
	StuffedCrust  bool
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
}

// ExtraSelection is an extra item chosen for a line.
type ExtraSelection struct {
	ExtraID  uuid.UUID
	Name     string
	Quantity int
}

// Cart is an ordered, in-memory sequence of items scoped to one checkout.
// It is not safe for concurrent use.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem appends an item and returns its id. An id is generated when empty.
func (c *Cart) AddItem(item Item) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	c.items = append(c.items, item)
	return item.ID
}

// UpdateQuantity sets the quantity of an item and recomputes its total.
// A quantity of zero or less removes the item.
func (c *Cart) UpdateQuantity(id string, n int) error {
	if n <= 0 {
		return c.RemoveItem(id)
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = n
			c.items[i].TotalPrice = c.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(n)))
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes an item, keeping the order of the rest.
func (c *Cart) RemoveItem(id string) error {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// GrandTotal is the sum of every line total.
func (c *Cart) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.items = nil
}
