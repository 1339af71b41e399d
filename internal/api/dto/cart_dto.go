package dto

// AddToCartRequest identifies the product and quantity to add. The
// gateway resolves the product from the catalog itself, so clients
// cannot forge prices or discounts.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateQuantityRequest sets the new quantity for a cart line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
