package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
	"github.com/soliddigital/mpesa-stk-gateway/app/metrics"
	"github.com/soliddigital/mpesa-stk-gateway/app/provider"
	"github.com/soliddigital/mpesa-stk-gateway/config"
)

const (
	pushInitiatedNote   = "M-Pesa STK Push initiated. Awaiting confirmation."
	pushTransactionDesc = "Order Payment"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
}

type orderNoteRepository interface {
	Create(ctx context.Context, note *entity.OrderNote) error
	ListByOrderID(ctx context.Context, orderID uint64) ([]*entity.OrderNote, error)
}

type callbackLogRepository interface {
	Create(ctx context.Context, log *entity.CallbackLog) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int32) (int64, error)
}

type GatewayService struct {
	orderRepo       orderRepository
	noteRepo        orderNoteRepository
	callbackLogRepo callbackLogRepository
	providerReg     *provider.Registry
	mpesaCfg        config.MpesaConfig
	jobsCfg         config.JobsConfig
	logger          logrus.FieldLogger
}

func NewGatewayService(
	orderRepo orderRepository,
	noteRepo orderNoteRepository,
	callbackLogRepo callbackLogRepository,
	providerReg *provider.Registry,
	mpesaCfg config.MpesaConfig,
	jobsCfg config.JobsConfig,
	logger logrus.FieldLogger,
) *GatewayService {
	return &GatewayService{
		orderRepo:       orderRepo,
		noteRepo:        noteRepo,
		callbackLogRepo: callbackLogRepo,
		providerReg:     providerReg,
		mpesaCfg:        mpesaCfg,
		jobsCfg:         jobsCfg,
		logger:          logger,
	}
}

// InitiatePayment triggers the phone-side payment prompt for an order. It
// returns immediately after initiation; settlement arrives later on the
// callback endpoint, never through this call.
func (s *GatewayService) InitiatePayment(ctx context.Context, orderID uint64, phoneNumber string) (*provider.PushOutput, error) {
	if orderID == 0 {
		return nil, ErrInvalidRequest
	}
	if !s.mpesaCfg.Enabled {
		return nil, ErrGatewayDisabled
	}

	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	providerClient, err := s.providerReg.Get(provider.CodeMpesa)
	if err != nil {
		return nil, err
	}

	output, err := providerClient.InitiateSTKPush(ctx, &provider.PushInput{
		OrderID:     order.ID,
		Amount:      order.Amount,
		PhoneNumber: phoneNumber,
		Description: pushTransactionDesc,
	})
	if err != nil {
		metrics.PushesFailedTotal.Inc()
		s.logger.WithError(err).WithField("order_id", orderID).Error("STK push initiation failed")
		return nil, ErrPushFailed
	}
	if output.ResponseCode != "0" {
		metrics.PushesFailedTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"order_id":      orderID,
			"response_code": output.ResponseCode,
			"response_desc": output.ResponseDescription,
		}).Warn("STK push rejected by provider")
		return nil, ErrPushFailed
	}

	if err := s.noteRepo.Create(ctx, &entity.OrderNote{
		OrderID:   order.ID,
		Note:      pushInitiatedNote,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("Failed to record initiation note")
	}

	metrics.PushesInitiatedTotal.Inc()
	return output, nil
}

// GetOrder returns an order with its note log for the storefront's
// post-push status polling.
func (s *GatewayService) GetOrder(ctx context.Context, orderID uint64) (*entity.Order, []*entity.OrderNote, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}

	notes, err := s.noteRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, notes, nil
}

// RunPruneCallbackLogsBatch deletes callback audit rows past the configured
// retention, one batch per call.
func (s *GatewayService) RunPruneCallbackLogsBatch(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.jobsCfg.LogsRetention)
	deleted, err := s.callbackLogRepo.DeleteOlderThan(ctx, cutoff, s.batchSize())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Pruned callback logs")
	}
	return nil
}

func (s *GatewayService) batchSize() int32 {
	if s.jobsCfg.JobBatchSize > 0 {
		return s.jobsCfg.JobBatchSize
	}
	return 500
}
