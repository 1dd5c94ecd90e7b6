package repository

import (
	"context"
	"database/sql"

	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
)

// OrderRepository reads and transitions orders owned by the storefront.
// This service never inserts or deletes order rows.
type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	query := `
		SELECT id, amount, currency, status, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	order := &entity.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Amount,
		&order.Currency,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET
			status = ?,
			updated_at = ?
		WHERE id = ?
	`

	// MySQL reports zero affected rows both for a missing id and for an
	// update that changes nothing, e.g. a duplicate callback re-applying a
	// status within the same second. Callers fetch the order before
	// transitioning it, so a zero here is a no-op, not an error.
	_, err := r.db.ExecContext(ctx, query, order.Status, order.UpdatedAt, order.ID)
	return err
}
