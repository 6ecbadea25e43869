package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/sony/gobreaker/v2"
)

var ErrUnavailable = errors.New("payment gateway unavailable")

// Breaker guards a gateway with a circuit breaker. Only gateway errors count
// as failures: invalid requests and declined payments leave it closed, and
// context errors are not counted at all.
type Breaker struct {
	next port.PaymentGateway
	cb   *gobreaker.CircuitBreaker[domain.PaymentResult]
}

func NewBreaker(next port.PaymentGateway, maxFailures uint32, timeout time.Duration, log *slog.Logger) *Breaker {
	if maxFailures == 0 {
		maxFailures = 1
	}
	if log == nil {
		log = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[domain.PaymentResult](gobreaker.Settings{
		Name:    "payment",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrInvalidPayment)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	result, err := b.cb.Execute(func() (domain.PaymentResult, error) {
		return b.next.ProcessPayment(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.PaymentResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return result, err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
