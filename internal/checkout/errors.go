package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoClientSecret    = errors.New("client secret not found")
	ErrContainerNotFound = errors.New("checkout container not found")
)
