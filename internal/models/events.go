package models

import "time"

// Event types
const (
	EventTypeOrderPlaced          = "ORDER_PLACED"
	EventTypeOrderStatusChanged   = "ORDER_STATUS_CHANGED"
	EventTypePaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when checkout persists a new order
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	Amount      int64           `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published when a seller moves an order to a new
// status
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// PaymentStatusChangedEvent published when a seller updates payment state
type PaymentStatusChangedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	IsPaid        bool   `json:"is_paid"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
