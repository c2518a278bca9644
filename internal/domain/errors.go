package domain

import "errors"

var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidPage         = errors.New("invalid page number")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaymentFailed       = errors.New("payment failed")
)
