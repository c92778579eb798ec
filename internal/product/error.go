package product

import "errors"

var (
	ErrNotFound = errors.New("product not found")

	// -- Database & Operation Failures --
	ErrFailedGetProduct = errors.New("failed to get product")
	ErrFailedGetWindows = errors.New("failed to get availability windows")
)
