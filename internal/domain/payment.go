package domain

import "time"

// Payment is a monetary application against an order's balance. Payments are
// owned by exactly one order and are never mutated after creation.
type Payment struct {
	ID        string
	OrderID   string
	Amount    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
