package port

import (
	"context"

	"github.com/nikolayk812/notesmarket/internal/domain"
)

type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}
