// Package catalog holds the fixed list of orderable garment categories and
// the in-memory cart that tracks per-item quantities.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnknownItem = errors.New("catalog: unknown item")

// Item is a single orderable garment category. The catalog is immutable
// within a session; quantities are tracked separately by Cart.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
	CareInfo  string
}

// Banner is a promotional card shown on the home surface.
type Banner struct {
	Icon        string
	Title       string
	Description string
}

// Items returns the current catalog. The slice is a fresh copy on every
// call so callers cannot mutate the shared list.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Lookup finds a catalog item by name.
func Lookup(name string) (Item, error) {
	for _, it := range items {
		if it.Name == name {
			return it, nil
		}
	}
	return Item{}, ErrUnknownItem
}

func Banners() []Banner {
	out := make([]Banner, len(banners))
	copy(out, banners)
	return out
}

var items = []Item{
	{
		Name:      "Shirts",
		UnitPrice: decimal.NewFromInt(20),
		ImageURL:  "https://cdn.ironwala.example/items/shirts.png",
		CareInfo:  "Iron cotton shirts on high heat, preferably while damp.",
	},
	{
		Name:      "Pants",
		UnitPrice: decimal.NewFromInt(10),
		ImageURL:  "https://cdn.ironwala.example/items/pants.png",
		CareInfo:  "Iron pants inside out to protect the fabric's sheen.",
	},
	{
		Name:      "Sarees",
		UnitPrice: decimal.NewFromInt(50),
		ImageURL:  "https://cdn.ironwala.example/items/sarees.png",
		CareInfo:  "Use low to medium heat for delicate fabrics like silk.",
	},
}

var banners = []Banner{
	{
		Icon:        "sparkles-outline",
		Title:       "Benefits of Ironing",
		Description: "Ironing kills germs and gives your clothes a fresh, crisp look.",
	},
	{
		Icon:        "pricetag-outline",
		Title:       "Special Offer!",
		Description: "Get 20% off your first order. Use code: FIRST20",
	},
	{
		Icon:        "shirt-outline",
		Title:       "Garment Care Tip",
		Description: "Always check the care label before ironing to avoid damage.",
	},
}
