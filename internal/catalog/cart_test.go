package catalog

import "testing"

func TestCartAdjust(t *testing.T) {
	t.Run("decrement at zero is a no-op", func(t *testing.T) {
		c := NewCart()
		if err := c.Adjust("Shirts", -1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.Quantity("Shirts"); got != 0 {
			t.Errorf("quantity = %d, want 0", got)
		}
	})

	t.Run("quantities accumulate", func(t *testing.T) {
		c := NewCart()
		_ = c.Adjust("Shirts", 2)
		_ = c.Adjust("Shirts", 1)
		_ = c.Adjust("Shirts", -1)
		if got := c.Quantity("Shirts"); got != 2 {
			t.Errorf("quantity = %d, want 2", got)
		}
	})

	t.Run("unknown item rejected", func(t *testing.T) {
		c := NewCart()
		if err := c.Adjust("Towels", 1); err != ErrUnknownItem {
			t.Fatalf("expected ErrUnknownItem, got %v", err)
		}
	})
}

func TestCartLines(t *testing.T) {
	c := NewCart()
	_ = c.Adjust("Sarees", 1)
	_ = c.Adjust("Shirts", 2)
	_ = c.Adjust("Pants", 1)
	_ = c.Adjust("Pants", -1)

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Catalog order, not insertion order.
	if lines[0].Name != "Shirts" || lines[1].Name != "Sarees" {
		t.Errorf("lines = [%s, %s], want [Shirts, Sarees]", lines[0].Name, lines[1].Name)
	}
	if lines[0].Quantity != 2 {
		t.Errorf("shirts quantity = %d, want 2", lines[0].Quantity)
	}
}

func TestLookup(t *testing.T) {
	it, err := Lookup("Pants")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := it.UnitPrice.String(), "10"; got != want {
		t.Errorf("unit price = %s, want %s", got, want)
	}
}
