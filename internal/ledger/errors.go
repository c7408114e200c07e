package ledger

import "errors"

var (
	// ErrIndexOutOfRange is returned when a line item index does not exist.
	ErrIndexOutOfRange = errors.New("line item index out of range")

	// ErrNegativeQuantity is returned when a line item has a quantity below zero.
	ErrNegativeQuantity = errors.New("line item quantity must not be negative")
)
