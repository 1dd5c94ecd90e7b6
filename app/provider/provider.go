package provider

import "context"

const CodeMpesa int32 = 1

type PushInput struct {
	// OrderID doubles as the account reference; the provider echoes it back
	// as MerchantRequestID on the callback.
	OrderID     uint64
	Amount      int64
	PhoneNumber string
	Description string
}

type PushOutput struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

type Provider interface {
	Code() int32
	InitiateSTKPush(ctx context.Context, input *PushInput) (*PushOutput, error)
}
