package service

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrOrderNotFound   = errors.New("order not found")
	ErrGatewayDisabled = errors.New("payment method is not enabled")
	ErrPhoneRequired   = errors.New("Please provide a phone number.")
	ErrPushFailed      = errors.New("M-Pesa payment failed. Please try again.")
)
