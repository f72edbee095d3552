package domain

import "github.com/shopspring/decimal"

// Fixed business rules: a flat 25% VAT applied to the subtotal and a flat
// shipping fee, whatever the destination or order size.
var (
	TaxRate      = decimal.RequireFromString("0.25")
	FlatShipping = decimal.NewFromInt(99)
)

// DefaultCurrency is the store currency all amounts are denominated in.
const DefaultCurrency = "SEK"

// Price fills the monetary fields of an order from its line items. Tax is
// computed once here and not recomputed by later edits. Discount is left
// untouched; no discount logic runs at creation time.
func (o *Order) Price() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(TaxRate).Round(2)
	o.Shipping = FlatShipping
	o.Total = o.Subtotal.Add(o.Tax).Add(o.Shipping)
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
}
