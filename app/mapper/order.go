package mapper

import (
	"time"

	"github.com/soliddigital/mpesa-stk-gateway/app/entity"
	"github.com/soliddigital/mpesa-stk-gateway/app/types"
)

func OrderToStatusResponse(order *entity.Order, notes []*entity.OrderNote) *types.OrderStatusResponse {
	if order == nil {
		return nil
	}

	noteTexts := make([]string, 0, len(notes))
	for _, note := range notes {
		if note == nil {
			continue
		}
		noteTexts = append(noteTexts, note.Note)
	}

	return &types.OrderStatusResponse{
		ID:        order.ID,
		Status:    OrderStatusName(order.Status),
		Notes:     noteTexts,
		UpdatedAt: order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func OrderStatusName(status int32) string {
	switch status {
	case entity.OrderStatusPending:
		return "pending"
	case entity.OrderStatusCompleted:
		return "completed"
	case entity.OrderStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
