package service

import "errors"

// Order placement and transition errors. Handlers map these onto HTTP status
// codes; everything else is a server error.
var (
	ErrEmptyCart            = errors.New("items are required")
	ErrMissingAddress       = errors.New("all address fields are required")
	ErrInvalidQuantity      = errors.New("item quantity must be a positive integer")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrBelowMinimum         = errors.New("order subtotal is below the minimum order amount")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrInvalidPaymentStatus = errors.New("invalid payment status value")
)
