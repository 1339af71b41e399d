package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated   EventType = "order_created"
	EventContactMessage EventType = "contact_message"
	EventCartMerged     EventType = "cart_merged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID       string  `json:"order_id"`
	CustomerEmail string  `json:"customer_email"`
	Total         float64 `json:"total"`
	TotalItems    int     `json:"total_items"`
}

// ContactMessagePayload payload.
type ContactMessagePayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// CartMergedPayload payload.
type CartMergedPayload struct {
	SessionID   string `json:"session_id"`
	MergedLines int    `json:"merged_lines"`
}
