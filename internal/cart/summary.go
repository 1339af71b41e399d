package cart

import (
	"math"

	"github.com/spec-kit/storefront-gateway/internal/domain"
)

// Summarize derives the cart totals from the line set and the pricing
// policy. It is the only place summary arithmetic lives: both the
// remote-backed and local-backed carts call it after every change, so
// a summary can never drift from its lines.
//
// Tax is rounded to the nearest whole currency unit; subtotal and
// total are otherwise unrounded. An empty cart yields the zero
// summary: no lines, no shipping, no tax.
func Summarize(lines []domain.CartLine, policy domain.CartPolicy) domain.CartSummary {
	if len(lines) == 0 {
		return domain.CartSummary{}
	}

	var subtotal float64
	var totalItems int
	for _, line := range lines {
		subtotal += line.LineTotal()
		totalItems += line.Quantity
	}

	tax := math.Round(subtotal * policy.TaxRate)
	return domain.CartSummary{
		Subtotal:    subtotal,
		ShippingFee: policy.ShippingFee,
		Tax:         tax,
		Total:       subtotal + policy.ShippingFee + tax,
		TotalItems:  totalItems,
	}
}
