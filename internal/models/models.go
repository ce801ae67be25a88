package models

import "time"

// Product represents a catalog entry. Prices are in the smallest currency
// unit; OfferPrice is the price charged at checkout.
type Product struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Category   string    `db:"category" json:"category"`
	Price      int64     `db:"price" json:"price"`
	OfferPrice int64     `db:"offer_price" json:"offerPrice"`
	InStock    bool      `db:"in_stock" json:"inStock"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Address is the shipping address captured with an order. All fields are
// required at placement time.
type Address struct {
	FirstName     string `db:"first_name" json:"firstName"`
	LastName      string `db:"last_name" json:"lastName"`
	Phone         string `db:"phone" json:"phone"`
	Street        string `db:"street" json:"street"`
	Town          string `db:"town" json:"town"`
	PaymentMethod string `db:"payment_method" json:"paymentMethod"`
}

// Complete reports whether every address field is present.
func (a Address) Complete() bool {
	return a.FirstName != "" && a.LastName != "" && a.Phone != "" &&
		a.Street != "" && a.Town != "" && a.PaymentMethod != ""
}

// Order represents a placed purchase. Amount is computed server-side at
// creation and never recomputed afterwards.
type Order struct {
	ID            string         `db:"id" json:"id"`
	Amount        int64          `db:"amount" json:"amount"`
	Address       Address        `db:"address" json:"address"`
	Status        string         `db:"status" json:"status"`
	PaymentType   string         `db:"payment_type" json:"paymentType"`
	IsPaid        bool           `db:"is_paid" json:"isPaid"`
	PaymentStatus string         `db:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
	Items         []ResolvedItem `db:"-" json:"items,omitempty"`
}

// OrderItem is a single order line as stored. UnitPrice is the offer price
// captured at placement.
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
}

// ResolvedItem is an order line with its product reference resolved to the
// full catalog record.
type ResolvedItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice int64   `json:"unitPrice"`
	LineTotal int64   `json:"lineTotal"`
}

// Order statuses
const (
	OrderStatusPlaced     = "Order Placed"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusVerified = "Verified"
	PaymentStatusFailed   = "Failed"
)

// PaymentTypeCOD is the only payment method supported at checkout.
const PaymentTypeCOD = "COD"

// ValidOrderStatus reports whether s is one of the enumerated order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the enumerated payment
// statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusFailed:
		return true
	}
	return false
}
