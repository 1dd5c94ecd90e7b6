package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type GatewayInfoResponse struct {
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type InitiatePaymentRequest struct {
	OrderID     uint64 `json:"-"`
	PhoneNumber string `json:"phone_number"`
}

type InitiatePaymentResponse struct {
	Result          string `json:"result"`
	CustomerMessage string `json:"customer_message,omitempty"`
}

type OrderStatusResponse struct {
	ID        uint64   `json:"id"`
	Status    string   `json:"status"`
	Notes     []string `json:"notes"`
	UpdatedAt string   `json:"updated_at"`
}

func NewInitiatePaymentRequestFromContext(ctx echo.Context) (*InitiatePaymentRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body InitiatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = id
	body.PhoneNumber = strings.TrimSpace(body.PhoneNumber)

	return &body, nil
}

func (r *InitiatePaymentRequest) Validate() error {
	if r.OrderID == 0 {
		return errors.New("invalid order id")
	}
	return nil
}

func NewOrderStatusRequestFromContext(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("invalid order id")
	}
	return id, nil
}
