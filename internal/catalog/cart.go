package catalog

import "github.com/shopspring/decimal"

// Line is one cart entry: a catalog item plus the quantity selected.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart tracks per-item quantities against the catalog. The zero quantity is
// the floor: decrementing at 0 is a no-op, never an error.
type Cart struct {
	quantities map[string]int
}

func NewCart() *Cart {
	return &Cart{quantities: make(map[string]int)}
}

// Adjust changes the quantity for a named catalog item by delta. A change
// that would take the quantity below zero leaves it untouched.
func (c *Cart) Adjust(name string, delta int) error {
	if _, err := Lookup(name); err != nil {
		return err
	}
	if next := c.quantities[name] + delta; next >= 0 {
		c.quantities[name] = next
	}
	return nil
}

func (c *Cart) Quantity(name string) int {
	return c.quantities[name]
}

// Lines returns the cart entries with quantity > 0, in catalog order.
func (c *Cart) Lines() []Line {
	var out []Line
	for _, it := range items {
		if q := c.quantities[it.Name]; q > 0 {
			out = append(out, Line{Name: it.Name, Quantity: q, UnitPrice: it.UnitPrice})
		}
	}
	return out
}
