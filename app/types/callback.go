package types

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrInvalidCallbackPayload marks a callback body that is not JSON or lacks
// the Body.stkCallback envelope. It is the only condition the receiver
// rejects.
var ErrInvalidCallbackPayload = errors.New("invalid callback payload")

// CallbackAck is one of the two fixed shapes the receiver ever returns.
type CallbackAck struct {
	ResultCode int32  `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

type StkCallbackEnvelope struct {
	Body StkCallbackBody `json:"Body"`
}

type StkCallbackBody struct {
	StkCallback *StkCallback `json:"stkCallback"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int32             `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata"`

	// RawPayload is the body as received, kept for the audit log.
	RawPayload []byte `json:"-"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// PaymentMetadata holds the named metadata items the receiver cares about.
// Items absent from the callback keep their defaults: "0" for Amount, empty
// for the string fields. Partial metadata is normal for declined or
// timed-out payments.
type PaymentMetadata struct {
	Amount          string
	PhoneNumber     string
	ReceiptNumber   string
	TransactionDate string
}

func NewStkCallbackFromContext(ctx echo.Context) (*StkCallback, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}
	return ParseStkCallback(rawBody)
}

func ParseStkCallback(rawBody []byte) (*StkCallback, error) {
	var envelope StkCallbackEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, ErrInvalidCallbackPayload
	}
	if envelope.Body.StkCallback == nil {
		return nil, ErrInvalidCallbackPayload
	}

	callback := envelope.Body.StkCallback
	callback.RawPayload = rawBody
	return callback, nil
}

// Metadata scans CallbackMetadata.Item and picks out the known names.
// The first item bearing a name wins; later duplicates are ignored.
func (c *StkCallback) Metadata() PaymentMetadata {
	var meta PaymentMetadata
	if c.CallbackMetadata == nil {
		return meta.withDefaults()
	}

	for _, item := range c.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if meta.Amount == "" {
				meta.Amount = itemValueText(item.Value)
			}
		case "PhoneNumber":
			if meta.PhoneNumber == "" {
				meta.PhoneNumber = itemValueText(item.Value)
			}
		case "MpesaReceiptNumber":
			if meta.ReceiptNumber == "" {
				meta.ReceiptNumber = itemValueText(item.Value)
			}
		case "TransactionDate":
			if meta.TransactionDate == "" {
				meta.TransactionDate = itemValueText(item.Value)
			}
		}
	}

	return meta.withDefaults()
}

func (m PaymentMetadata) withDefaults() PaymentMetadata {
	if m.Amount == "" {
		m.Amount = "0"
	}
	return m
}

// itemValueText renders a metadata value in its textual wire form: strings
// are unquoted, numbers keep the digits exactly as sent (no float round
// trip), anything else is passed through raw.
func itemValueText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	return trimmed
}
