package dto

// CreateOrderRequest payload for placing an order.
type CreateOrderRequest struct {
	ShippingName  string `json:"shipping_name"`
	ShippingPhone string `json:"shipping_phone"`
	Address       string `json:"address"`
	District      string `json:"district"`
}

// ContactRequest payload for the get-in-touch form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
