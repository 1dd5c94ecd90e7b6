package entity

import "time"

const (
	OrderStatusPending   int32 = 1
	OrderStatusCompleted int32 = 10
	OrderStatusFailed    int32 = 20
)

// Order is owned by the surrounding store; this service only reads it and
// moves its status. Amount is in whole KES, which is the only unit M-Pesa
// accepts.
type Order struct {
	ID uint64

	Amount   int64
	Currency string

	Status int32

	CreatedAt time.Time
	UpdatedAt time.Time
}
