package service

import (
	"fmt"
	"math"
)

// Pricing holds the checkout pricing policy. Amounts are in the smallest
// currency unit; TaxRate is a fraction and may be zero.
type Pricing struct {
	MinOrderAmount        int64
	FreeDeliveryThreshold int64
	DeliveryFee           int64
	TaxRate               float64
}

// Charges is the server-computed breakdown of an order amount.
type Charges struct {
	Subtotal       int64 `json:"subtotal"`
	DeliveryCharge int64 `json:"deliveryCharge"`
	Tax            int64 `json:"tax"`
	Total          int64 `json:"total"`
}

// Quote computes the charges for a subtotal. The delivery fee is waived at or
// above the free-delivery threshold. Subtotals below the minimum order amount
// are rejected.
func (p Pricing) Quote(subtotal int64) (Charges, error) {
	if subtotal < p.MinOrderAmount {
		return Charges{}, fmt.Errorf("%w: subtotal %d, minimum %d",
			ErrBelowMinimum, subtotal, p.MinOrderAmount)
	}

	tax := int64(math.Round(float64(subtotal) * p.TaxRate))

	var delivery int64
	if subtotal < p.FreeDeliveryThreshold {
		delivery = p.DeliveryFee
	}

	return Charges{
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Tax:            tax,
		Total:          subtotal + delivery + tax,
	}, nil
}
