package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
	"github.com/soliddigital/mpesa-stk-gateway/app/factory"
	"github.com/soliddigital/mpesa-stk-gateway/app/provider"
	"github.com/soliddigital/mpesa-stk-gateway/config"
)

func TestInitiatePaymentSuccess(t *testing.T) {
	order := &entity.Order{ID: 42, Amount: 100, Currency: "KES", Status: entity.OrderStatusPending}
	var pushed *provider.PushInput
	var notes []string
	var statusChanged bool

	svc := newServiceForTest(
		&mockOrderRepo{
			findByIDFn: func(context.Context, uint64) (*entity.Order, error) { return order, nil },
			updateFn: func(context.Context, *entity.Order) error {
				statusChanged = true
				return nil
			},
		},
		&mockNoteRepo{createFn: func(_ context.Context, note *entity.OrderNote) error {
			notes = append(notes, note.Note)
			return nil
		}},
		&mockCallbackLogRepo{},
		&mockProvider{pushFn: func(_ context.Context, input *provider.PushInput) (*provider.PushOutput, error) {
			pushed = input
			return &provider.PushOutput{
				MerchantRequestID: "42",
				CheckoutRequestID: "ws_CO_1",
				ResponseCode:      "0",
				CustomerMessage:   "Success. Request accepted for processing",
			}, nil
		}},
	)

	output, err := svc.InitiatePayment(context.Background(), 42, "254712345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.CustomerMessage != "Success. Request accepted for processing" {
		t.Fatalf("unexpected customer message: %s", output.CustomerMessage)
	}
	if pushed == nil || pushed.OrderID != 42 || pushed.Amount != 100 || pushed.PhoneNumber != "254712345678" {
		t.Fatalf("unexpected push input: %+v", pushed)
	}
	if pushed.Description != "Order Payment" {
		t.Fatalf("unexpected description: %s", pushed.Description)
	}
	if len(notes) != 1 || notes[0] != "M-Pesa STK Push initiated. Awaiting confirmation." {
		t.Fatalf("unexpected notes: %v", notes)
	}
	if statusChanged {
		t.Fatal("initiation must not change order status")
	}
}

func TestInitiatePaymentEmptyPhoneSkipsProvider(t *testing.T) {
	providerCalled := false

	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) {
			return &entity.Order{ID: 1, Amount: 10, Status: entity.OrderStatusPending}, nil
		}},
		&mockNoteRepo{},
		&mockCallbackLogRepo{},
		&mockProvider{pushFn: func(context.Context, *provider.PushInput) (*provider.PushOutput, error) {
			providerCalled = true
			return &provider.PushOutput{ResponseCode: "0"}, nil
		}},
	)

	for _, phone := range []string{"", "   "} {
		if _, err := svc.InitiatePayment(context.Background(), 1, phone); !errors.Is(err, ErrPhoneRequired) {
			t.Fatalf("expected ErrPhoneRequired for %q, got %v", phone, err)
		}
	}
	if providerCalled {
		t.Fatal("expected no provider call for empty phone")
	}
}

func TestInitiatePaymentNonZeroResponseCodeFails(t *testing.T) {
	var notes []string

	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) {
			return &entity.Order{ID: 1, Amount: 10, Status: entity.OrderStatusPending}, nil
		}},
		&mockNoteRepo{createFn: func(_ context.Context, note *entity.OrderNote) error {
			notes = append(notes, note.Note)
			return nil
		}},
		&mockCallbackLogRepo{},
		&mockProvider{pushFn: func(context.Context, *provider.PushInput) (*provider.PushOutput, error) {
			return &provider.PushOutput{ResponseCode: "1", ResponseDescription: "Invalid PhoneNumber"}, nil
		}},
	)

	if _, err := svc.InitiatePayment(context.Background(), 1, "254712345678"); !errors.Is(err, ErrPushFailed) {
		t.Fatalf("expected ErrPushFailed, got %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no note on failed initiation, got %v", notes)
	}
}

func TestInitiatePaymentTransportFailure(t *testing.T) {
	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) {
			return &entity.Order{ID: 1, Amount: 10, Status: entity.OrderStatusPending}, nil
		}},
		&mockNoteRepo{},
		&mockCallbackLogRepo{},
		&mockProvider{pushFn: func(context.Context, *provider.PushInput) (*provider.PushOutput, error) {
			return nil, errors.New("connection refused")
		}},
	)

	if _, err := svc.InitiatePayment(context.Background(), 1, "254712345678"); !errors.Is(err, ErrPushFailed) {
		t.Fatalf("expected ErrPushFailed, got %v", err)
	}
}

func TestInitiatePaymentZeroOrderID(t *testing.T) {
	lookedUp := false

	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) {
			lookedUp = true
			return nil, nil
		}},
		&mockNoteRepo{},
		&mockCallbackLogRepo{},
		&mockProvider{},
	)

	if _, err := svc.InitiatePayment(context.Background(), 0, "254712345678"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if lookedUp {
		t.Fatal("expected no lookup for zero order id")
	}
}

func TestInitiatePaymentOrderNotFound(t *testing.T) {
	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) { return nil, nil }},
		&mockNoteRepo{},
		&mockCallbackLogRepo{},
		&mockProvider{},
	)

	if _, err := svc.InitiatePayment(context.Background(), 9, "254712345678"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestInitiatePaymentGatewayDisabled(t *testing.T) {
	svc := NewGatewayService(
		&mockOrderRepo{},
		&mockNoteRepo{},
		&mockCallbackLogRepo{},
		provider.NewRegistry(&mockProvider{}),
		config.MpesaConfig{Enabled: false},
		config.JobsConfig{},
		factory.NewModuleLogger("gateway-service-test"),
	)

	if _, err := svc.InitiatePayment(context.Background(), 1, "254712345678"); !errors.Is(err, ErrGatewayDisabled) {
		t.Fatalf("expected ErrGatewayDisabled, got %v", err)
	}
}

func TestGetOrderWithNotes(t *testing.T) {
	now := time.Now().UTC()

	svc := newServiceForTest(
		&mockOrderRepo{findByIDFn: func(context.Context, uint64) (*entity.Order, error) {
			return &entity.Order{ID: 3, Amount: 75, Currency: "KES", Status: entity.OrderStatusCompleted, UpdatedAt: now}, nil
		}},
		&mockNoteRepo{listByOrderFn: func(context.Context, uint64) ([]*entity.OrderNote, error) {
			return []*entity.OrderNote{{ID: 1, OrderID: 3, Note: "M-Pesa STK Push initiated. Awaiting confirmation.", CreatedAt: now}}, nil
		}},
		&mockCallbackLogRepo{},
		&mockProvider{},
	)

	order, notes, err := svc.GetOrder(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != entity.OrderStatusCompleted {
		t.Fatalf("unexpected status: %d", order.Status)
	}
	if len(notes) != 1 {
		t.Fatalf("unexpected notes: %v", notes)
	}
}
