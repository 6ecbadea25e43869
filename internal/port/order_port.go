package port

import (
	"context"

	"github.com/nikolayk812/notesmarket/internal/domain"
)

type OrderRepository interface {
	GetOrders(ctx context.Context) ([]domain.Order, error)
	// PrependOrder stores order ahead of the persisted history and returns
	// the resulting list, most recent first.
	PrependOrder(ctx context.Context, order domain.Order) ([]domain.Order, error)
}
