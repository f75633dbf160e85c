package domain

import "errors"

var (
	ErrIdentityUnresolved   = errors.New("unable to resolve identity from token")
	ErrOutOfStock           = errors.New("one or more products are out of stock")
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
	ErrInventoryCircuitOpen = errors.New("inventory circuit open")
	ErrInvalidOrderRequest  = errors.New("invalid order request")
)
