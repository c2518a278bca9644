package domain

import "time"

// Order is a billable entity with an original amount and a remaining balance.
type Order struct {
	ID             string
	Email          string
	OriginalAmount float64
	Balance        float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	// Payments is populated only when the order is loaded with its history.
	Payments []Payment
}
