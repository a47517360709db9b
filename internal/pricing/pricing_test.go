package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AdY21850/sweet-shop-manager/internal/domain"
)

func TestQuote_FreeShippingOverThreshold(t *testing.T) {
	calc := DefaultCalculator()

	quote := calc.Quote([]domain.LineItem{
		{ID: 1, Price: 250, Quantity: 1},
		{ID: 2, Price: 900, Quantity: 1},
	})

	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(1150)), "subtotal = %s", quote.Subtotal)
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(207)), "tax = %s", quote.Tax)
	assert.True(t, quote.Shipping.IsZero(), "shipping = %s", quote.Shipping)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(1357)), "total = %s", quote.Total)
}

func TestQuote_FlatShippingBelowThreshold(t *testing.T) {
	calc := DefaultCalculator()

	quote := calc.Quote([]domain.LineItem{
		{ID: 1, Price: 100, Quantity: 1},
	})

	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal = %s", quote.Subtotal)
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(18)), "tax = %s", quote.Tax)
	assert.True(t, quote.Shipping.Equal(decimal.NewFromInt(50)), "shipping = %s", quote.Shipping)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(168)), "total = %s", quote.Total)
}

func TestQuote_ThresholdIsExclusive(t *testing.T) {
	calc := DefaultCalculator()

	// subtotal must exceed the threshold, not merely reach it
	quote := calc.Quote([]domain.LineItem{{ID: 1, Price: 500, Quantity: 2}})
	assert.True(t, quote.Shipping.Equal(decimal.NewFromInt(50)), "shipping = %s", quote.Shipping)

	quote = calc.Quote([]domain.LineItem{{ID: 1, Price: 500.5, Quantity: 2}})
	assert.True(t, quote.Shipping.IsZero(), "shipping = %s", quote.Shipping)
}

func TestQuote_TaxRoundsToNearestUnit(t *testing.T) {
	calc := DefaultCalculator()

	// 18% of 125 is 22.5, rounded to 23
	quote := calc.Quote([]domain.LineItem{{ID: 1, Price: 125, Quantity: 1}})
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(23)), "tax = %s", quote.Tax)

	// 18% of 130 is 23.4, rounded to 23
	quote = calc.Quote([]domain.LineItem{{ID: 1, Price: 130, Quantity: 1}})
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(23)), "tax = %s", quote.Tax)
}

func TestQuote_QuantityMultiplies(t *testing.T) {
	calc := DefaultCalculator()

	quote := calc.Quote([]domain.LineItem{{ID: 1, Price: 40, Quantity: 3}})
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(120)), "subtotal = %s", quote.Subtotal)
}

func TestQuote_EmptyCart(t *testing.T) {
	calc := DefaultCalculator()

	quote := calc.Quote(nil)
	assert.True(t, quote.Subtotal.IsZero())
	assert.True(t, quote.Tax.IsZero())
}
