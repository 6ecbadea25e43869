package port

import (
	"context"

	"github.com/nikolayk812/notesmarket/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, items []domain.CartItem) error
}
