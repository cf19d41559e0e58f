package domain

import "github.com/shopspring/decimal"

// DefaultDiscountRate is the flat discount applied to the whole cart.
var DefaultDiscountRate = decimal.NewFromFloat(0.20)

// PriceSummary is what the cart and checkout pages display.
type PriceSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize sums item prices and applies rate to the subtotal. Amounts are rounded to cents.
func Summarize(items []CartItem, rate decimal.Decimal) PriceSummary {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price)
	}
	discount := subtotal.Mul(rate).Round(2)
	return PriceSummary{
		Subtotal: subtotal.Round(2),
		Discount: discount,
		Total:    subtotal.Sub(discount).Round(2),
	}
}
