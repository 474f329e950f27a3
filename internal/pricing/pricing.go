// Package pricing derives order totals from cart lines and the remotely
// configured fee/discount pair.
//
// Quote is a pure function: same lines and config always produce the same
// numbers, and the caller recomputes on every quantity change so a stale
// total is never displayed.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ironwala/ironwala-api/internal/catalog"
)

// FeeConfig is the fee/discount pair loaded once per session from the
// config/fees document. Defaults are written back when the document is
// missing.
type FeeConfig struct {
	ServiceFee decimal.Decimal
	Discount   decimal.Decimal
}

// DefaultFeeConfig seeds the config document on first run.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		ServiceFee: decimal.NewFromInt(15),
		Discount:   decimal.NewFromInt(10),
	}
}

// ConfigSource loads the fee configuration, seeding the backing document
// with defaults when it does not exist yet.
type ConfigSource interface {
	Load(ctx context.Context) (FeeConfig, error)
}

// Quote is the priced view of a cart.
//
// Invariants: Subtotal = Σ quantity×unitPrice; Fee and Discount are zero
// whenever Subtotal is zero; Total = Subtotal + Fee − Discount.
type Quote struct {
	Lines     []catalog.Line
	Subtotal  decimal.Decimal
	Fee       decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	CartCount int
}

// Compute prices the given cart lines under cfg.
func Compute(lines []catalog.Line, cfg FeeConfig) Quote {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	fee := decimal.Zero
	discount := decimal.Zero
	if subtotal.IsPositive() {
		fee = cfg.ServiceFee
		discount = cfg.Discount
	}

	return Quote{
		Lines:     lines,
		Subtotal:  subtotal,
		Fee:       fee,
		Discount:  discount,
		Total:     subtotal.Add(fee).Sub(discount),
		CartCount: count,
	}
}
