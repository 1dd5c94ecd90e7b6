package entity

import "time"

const (
	CallbackLogProcessed int32 = 10
	CallbackLogOrphaned  int32 = 20
)

// CallbackLog is an audit record of a structurally valid provider callback.
// It records what arrived; it does not gate processing.
type CallbackLog struct {
	ID uint64

	OrderID *uint64

	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int32
	ResultDesc        string
	PayloadJSON       string
	Status            int32

	CreatedAt time.Time
}
