// Package pricing derives the monetary figures for a cart snapshot:
// subtotal, tax, shipping and total. It is a pure function of its inputs
// and carries no state.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

// Defaults applied when no configuration overrides them.
const (
	DefaultTaxRate          = 0.18
	DefaultFreeShippingOver = 1000
	DefaultShippingFee      = 50
)

type Calculator struct {
	TaxRate          decimal.Decimal
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
}

// Quote is a priced view of a cart snapshot. All amounts are in whole
// currency units; tax is rounded to the nearest unit.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

func NewCalculator(taxRate, freeShippingOver, shippingFee float64) Calculator {
	return Calculator{
		TaxRate:          decimal.NewFromFloat(taxRate),
		FreeShippingOver: decimal.NewFromFloat(freeShippingOver),
		ShippingFee:      decimal.NewFromFloat(shippingFee),
	}
}

func DefaultCalculator() Calculator {
	return NewCalculator(DefaultTaxRate, DefaultFreeShippingOver, DefaultShippingFee)
}

// Quote prices the given line items. Shipping is waived once the subtotal
// exceeds the free-shipping threshold.
func (c Calculator) Quote(items []domain.LineItem) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.Mul(c.TaxRate).Round(0)

	shipping := c.ShippingFee
	if subtotal.GreaterThan(c.FreeShippingOver) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
