package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
	"github.com/soliddigital/mpesa-stk-gateway/app/metrics"
	"github.com/soliddigital/mpesa-stk-gateway/app/types"
)

// HandleStkCallback drives an order's state from a provider decision. The
// caller has already validated the envelope structure; everything that can
// go wrong past that point is logged and absorbed, because the provider is
// always acknowledged with success regardless of the outcome here.
func (s *GatewayService) HandleStkCallback(ctx context.Context, callback *types.StkCallback) error {
	now := time.Now().UTC()
	orderID := coerceOrderID(callback.MerchantRequestID)

	l := s.logger.WithFields(logrus.Fields{
		"merchant_request_id": callback.MerchantRequestID,
		"checkout_request_id": callback.CheckoutRequestID,
		"result_code":         callback.ResultCode,
		"order_id":            orderID,
	})

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		metrics.CallbacksOrphanedTotal.Inc()
		l.Warn("Order not found for callback")
		s.persistCallbackLog(ctx, nil, callback, entity.CallbackLogOrphaned, now)
		return nil
	}

	if callback.ResultCode == 0 {
		meta := callback.Metadata()
		note := fmt.Sprintf(
			"M-Pesa payment successful. Amount: KES %s. Phone: %s. Receipt: %s. Transaction Date: %s.",
			meta.Amount, meta.PhoneNumber, meta.ReceiptNumber, meta.TransactionDate,
		)
		if err := s.transitionOrder(ctx, order, entity.OrderStatusCompleted, note, now); err != nil {
			return err
		}
		l.WithField("receipt", meta.ReceiptNumber).Info("Order marked as completed")
	} else {
		note := fmt.Sprintf("M-Pesa payment failed. Reason: %s.", callback.ResultDesc)
		if err := s.transitionOrder(ctx, order, entity.OrderStatusFailed, note, now); err != nil {
			return err
		}
		l.Info("Order marked as failed")
	}

	s.persistCallbackLog(ctx, &order.ID, callback, entity.CallbackLogProcessed, now)
	return nil
}

func (s *GatewayService) transitionOrder(ctx context.Context, order *entity.Order, status int32, note string, now time.Time) error {
	if err := s.noteRepo.Create(ctx, &entity.OrderNote{
		OrderID:   order.ID,
		Note:      note,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	order.Status = status
	order.UpdatedAt = now
	return s.orderRepo.Update(ctx, order)
}

func (s *GatewayService) persistCallbackLog(
	ctx context.Context,
	orderID *uint64,
	callback *types.StkCallback,
	status int32,
	now time.Time,
) {
	err := s.callbackLogRepo.Create(ctx, &entity.CallbackLog{
		OrderID:           orderID,
		MerchantRequestID: callback.MerchantRequestID,
		CheckoutRequestID: callback.CheckoutRequestID,
		ResultCode:        callback.ResultCode,
		ResultDesc:        callback.ResultDesc,
		PayloadJSON:       string(callback.RawPayload),
		Status:            status,
		CreatedAt:         now,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to persist callback log")
	}
}

// coerceOrderID mirrors the storefront's historical integer coercion of the
// opaque MerchantRequestID: leading digits after optional whitespace and a
// plus sign, anything else yields 0. Downstream lookups depend on this
// exact behavior.
func coerceOrderID(merchantRequestID string) uint64 {
	i := 0
	for i < len(merchantRequestID) && (merchantRequestID[i] == ' ' || merchantRequestID[i] == '\t' || merchantRequestID[i] == '\n' || merchantRequestID[i] == '\r') {
		i++
	}
	if i < len(merchantRequestID) && merchantRequestID[i] == '+' {
		i++
	}

	var id uint64
	for ; i < len(merchantRequestID); i++ {
		c := merchantRequestID[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
