package domain

import "time"

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a checkout snapshot of a cart: lines and totals are frozen
// at creation time and do not follow later catalog price changes.
type Order struct {
	ID            string      `json:"id"`
	CustomerEmail string      `json:"customer_email"`
	Lines         []CartLine  `json:"items"`
	Summary       CartSummary `json:"summary"`
	ShippingName  string      `json:"shipping_name"`
	ShippingPhone string      `json:"shipping_phone"`
	Address       string      `json:"address"`
	District      string      `json:"district"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
