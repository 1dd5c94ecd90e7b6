package repository

import (
	"context"
	"time"

	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
)

type CallbackLogRepository struct {
	db DBTX
}

func NewCallbackLogRepository(db DBTX) *CallbackLogRepository {
	return &CallbackLogRepository{db: db}
}

func (r *CallbackLogRepository) Create(ctx context.Context, log *entity.CallbackLog) error {
	query := `
		INSERT INTO mpesa_callback_logs (
			order_id, merchant_request_id, checkout_request_id, result_code, result_desc, payload_json, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(log.OrderID),
		log.MerchantRequestID,
		log.CheckoutRequestID,
		log.ResultCode,
		log.ResultDesc,
		log.PayloadJSON,
		log.Status,
		log.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = uint64(id)

	return nil
}

func (r *CallbackLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	query := `
		DELETE FROM mpesa_callback_logs
		WHERE created_at < ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	result, err := r.db.ExecContext(ctx, query, cutoff, limit)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
