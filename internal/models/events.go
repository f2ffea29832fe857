package models

import "time"

// Event types
const (
	EventTypeOrderPlaced    = "ORDER_PLACED"
	EventTypeOrderConfirmed = "ORDER_CONFIRMED"
	EventTypeOrderVoided    = "ORDER_VOIDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when an order is created
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	Amount      int64           `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Items       []OrderItemData `json:"items"`
}

// OrderConfirmedEvent published when the gateway confirms payment
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// OrderVoidedEvent published when a gateway order is voided
type OrderVoidedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Reason  string `json:"reason"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
