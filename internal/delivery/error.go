package delivery

import "errors"

var (
	// -- Lookup --
	ErrProductNotFound = errors.New("product not found")

	// -- Validation & Input --
	ErrEmptyCart      = errors.New("cart has no items")
	ErrDateOutOfRange = errors.New("requested date outside the bookable window")
	ErrInvalidPolicy  = errors.New("invalid delivery policy")
)
