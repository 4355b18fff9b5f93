package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func line(unit string, qty int) Item {
	u := decimal.RequireFromString(unit)
	return Item{
		ComboName:  "Pizza",
		Quantity:   qty,
		UnitPrice:  u,
		TotalPrice: u.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestCart_AddAndGrandTotal(t *testing.T) {
	c := New()
	c.AddItem(line("64.99", 1))
	c.AddItem(line("12.00", 3))

	if c.Len() != 2 {
		t.Fatalf("len: got %d, want 2", c.Len())
	}
	if got := c.GrandTotal(); !got.Equal(decimal.RequireFromString("100.99")) {
		t.Errorf("grand total: got %s, want 100.99", got)
	}
}

func TestCart_AddKeepsGivenID(t *testing.T) {
	c := New()
	it := line("10", 1)
	it.ID = "line-1"
	if id := c.AddItem(it); id != "line-1" {
		t.Fatalf("id: got %q, want line-1", id)
	}
	if id := c.AddItem(line("10", 1)); id == "" {
		t.Fatal("expected generated id")
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := New()
	id := c.AddItem(line("20.00", 1))

	if err := c.UpdateQuantity(id, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	items := c.Items()
	if items[0].Quantity != 4 {
		t.Errorf("quantity: got %d, want 4", items[0].Quantity)
	}
	if !items[0].TotalPrice.Equal(decimal.RequireFromString("80.00")) {
		t.Errorf("total: got %s, want 80.00", items[0].TotalPrice)
	}
}

func TestCart_UpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, n := range []int{0, -1} {
		c := New()
		id := c.AddItem(line("20.00", 1))
		c.AddItem(line("5.00", 1))

		if err := c.UpdateQuantity(id, n); err != nil {
			t.Fatalf("n=%d: update: %v", n, err)
		}
		if c.Len() != 1 {
			t.Fatalf("n=%d: len: got %d, want 1", n, c.Len())
		}
		if !c.GrandTotal().Equal(decimal.RequireFromString("5.00")) {
			t.Errorf("n=%d: grand total: got %s, want 5.00", n, c.GrandTotal())
		}
	}
}

func TestCart_RemoveKeepsOrder(t *testing.T) {
	c := New()
	a := c.AddItem(line("1", 1))
	b := c.AddItem(line("2", 1))
	d := c.AddItem(line("3", 1))

	if err := c.RemoveItem(b); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items := c.Items()
	if items[0].ID != a || items[1].ID != d {
		t.Errorf("order after remove: got [%s %s], want [%s %s]", items[0].ID, items[1].ID, a, d)
	}
}

func TestCart_UnknownItem(t *testing.T) {
	c := New()
	if err := c.RemoveItem("nope"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("remove: expected ErrItemNotFound, got %v", err)
	}
	if err := c.UpdateQuantity("nope", 2); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("update: expected ErrItemNotFound, got %v", err)
	}
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.AddItem(line("10", 2))
	c.Clear()
	if c.Len() != 0 || !c.GrandTotal().IsZero() {
		t.Errorf("expected empty cart, got len=%d total=%s", c.Len(), c.GrandTotal())
	}
}
