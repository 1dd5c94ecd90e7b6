package types

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewInitiatePaymentRequestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/42/pay", bytes.NewBufferString(`{"phone_number":"  254712345678  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("42")

	parsed, err := NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.OrderID != 42 {
		t.Fatalf("unexpected order id: %d", parsed.OrderID)
	}
	if parsed.PhoneNumber != "254712345678" {
		t.Fatalf("expected trimmed phone, got %q", parsed.PhoneNumber)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestNewInitiatePaymentRequestBadOrderID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/abc/pay", bytes.NewBufferString(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("abc")

	if _, err := NewInitiatePaymentRequestFromContext(ctx); err == nil {
		t.Fatal("expected error for non-numeric order id")
	}
}

func TestInitiatePaymentRequestValidateRejectsZeroID(t *testing.T) {
	r := &InitiatePaymentRequest{OrderID: 0, PhoneNumber: "254712345678"}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for zero order id")
	}
}
