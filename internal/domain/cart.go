package domain

// CartLine is one product entry in a cart. Lines are unique per
// product id; re-adding a product increments quantity instead of
// creating a second line.
type CartLine struct {
	ProductID          int64   `json:"product_id"`
	Title              string  `json:"title"`
	UnitPrice          float64 `json:"unit_price"`
	Quantity           int     `json:"quantity"`
	Thumbnail          string  `json:"thumbnail"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// LineTotal returns unit price times quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartSummary holds derived totals. It is always recomputed from the
// current line set and the cart policy, never mutated on its own.
type CartSummary struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	TotalItems  int     `json:"total_items"`
}

// CartPolicy carries the two configurable pricing constants.
type CartPolicy struct {
	ShippingFee float64
	TaxRate     float64
}
