package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/metrics"
	"github.com/nikolayk812/notesmarket/internal/port"
)

// OrderStore is an append-only history, most recent first.
type OrderStore struct {
	repo    port.OrderRepository
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.RWMutex
	orders []domain.Order
}

func NewOrderStore(repo port.OrderRepository, opts ...Option) *OrderStore {
	o := newOptions(opts)

	return &OrderStore{
		repo:    repo,
		log:     o.log.With("store", "orders"),
		metrics: o.metrics,
		now:     o.now,
	}
}

// Init loads the persisted history. A corrupt history starts empty and is
// replaced on the next Record.
func (s *OrderStore) Init(ctx context.Context) error {
	orders, err := s.repo.GetOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil

	switch {
	case err == nil:
		s.orders = orders
		return nil
	case errors.Is(err, port.ErrNotFound):
		return nil
	case errors.Is(err, port.ErrCorrupt):
		s.log.Warn("ignoring corrupt order history", "error", err)
		return nil
	default:
		s.log.Error("order history load failed", "error", err)
		return fmt.Errorf("%w: repo.GetOrders: %w", domain.ErrStorageRead, err)
	}
}

// Record prepends order with its status forced to completed. Missing ID and
// date are filled in. Persistence failures are logged and swallowed.
func (s *OrderStore) Record(ctx context.Context, order domain.Order) domain.Order {
	order.Status = domain.OrderStatusCompleted
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Date.IsZero() {
		order.Date = s.now()
	}
	order.Items = slices.Clone(order.Items)

	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := s.repo.PrependOrder(ctx, order)
	if err != nil {
		s.metrics.StorageError("orders", "prepend")
		s.log.Warn("order persist failed", "order_id", order.ID, "error", err)
		s.orders = append([]domain.Order{order}, s.orders...)
	} else {
		s.orders = persisted
	}

	s.metrics.OrderRecorded()
	s.log.Info("order recorded", "order_id", order.ID, "transaction_id", order.TransactionID)

	return order
}

func (s *OrderStore) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.orders)
}
