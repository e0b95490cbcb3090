package service

import "errors"

// Domain error kinds surfaced by the money operations. Each failure is
// wrapped with an operation-specific message; callers classify with
// errors.Is. Store I/O failures are propagated unchanged.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("source and destination accounts must differ")
)
