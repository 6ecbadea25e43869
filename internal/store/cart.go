package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/metrics"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CartStore keeps at most one line per item ID, in insertion order.
type CartStore struct {
	repo     port.CartRepository
	currency currency.Unit
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu    sync.RWMutex
	items []domain.CartItem
}

func NewCartStore(repo port.CartRepository, unit currency.Unit, opts ...Option) *CartStore {
	o := newOptions(opts)

	return &CartStore{
		repo:     repo,
		currency: unit,
		log:      o.log.With("store", "cart"),
		metrics:  o.metrics,
		now:      o.now,
	}
}

// Init loads the persisted cart. A corrupt record is discarded and the cart
// starts empty; a read failure also leaves the cart empty and is returned.
func (s *CartStore) Init(ctx context.Context) error {
	items, err := s.repo.GetCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	switch {
	case err == nil:
		s.items = mergeDuplicates(items)
		s.log.Debug("cart loaded", "lines", len(s.items))
		return nil
	case errors.Is(err, port.ErrNotFound):
		return nil
	case errors.Is(err, port.ErrCorrupt):
		s.log.Warn("discarding corrupt cart", "error", err)
		s.persist(ctx, "discard")
		return nil
	default:
		s.log.Error("cart load failed", "error", err)
		return fmt.Errorf("%w: repo.GetCart: %w", domain.ErrStorageRead, err)
	}
}

// Add inserts item or, when its ID is already present, increments the
// existing line by item.Quantity. A quantity below 1 counts as 1 and a
// negative price counts as 0. An item without an ID is dropped.
func (s *CartStore) Add(ctx context.Context, item domain.CartItem) {
	if item.ID == "" {
		s.log.Warn("cart item without id ignored", "title", item.Title)
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.Price.IsNegative() {
		item.Price = decimal.Zero
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i].Quantity += item.Quantity
	} else {
		if item.AddedAt.IsZero() {
			item.AddedAt = s.now()
		}
		s.items = append(s.items, item)
	}

	s.metrics.CartMutated("add")
	s.persist(ctx, "add")
}

// Remove deletes the line with id; unknown ids are ignored.
func (s *CartStore) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx, id)
}

// UpdateQuantity sets the quantity of line id. qty <= 0 removes the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.remove(ctx, id)
		return
	}

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.items[i].Quantity = max(qty, 1)

	s.metrics.CartMutated("update")
	s.persist(ctx, "update")
}

func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	s.metrics.CartMutated("clear")
	s.persist(ctx, "clear")
}

// Settle takes paid quantities off their lines and drops lines that reach
// zero. Quantity added after the snapshot was taken stays in the cart.
func (s *CartStore) Settle(ctx context.Context, paid []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range paid {
		i := s.indexOf(p.ID)
		if i < 0 {
			continue
		}
		s.items[i].Quantity -= p.Quantity
		if s.items[i].Quantity <= 0 {
			s.items = slices.Delete(s.items, i, i+1)
		}
	}

	s.metrics.CartMutated("settle")
	s.persist(ctx, "settle")
}

// Totals is derived from the current lines on every call.
func (s *CartStore) Totals() domain.Totals {
	return s.Cart().Totals()
}

func (s *CartStore) Cart() domain.Cart {
	return domain.Cart{Items: s.Items(), Currency: s.currency}
}

func (s *CartStore) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *CartStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items) == 0
}

func (s *CartStore) remove(ctx context.Context, id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.items = slices.Delete(s.items, i, i+1)

	s.metrics.CartMutated("remove")
	s.persist(ctx, "remove")
}

func (s *CartStore) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.ID == id
	})
}

// persist writes the full list. Failures are logged and swallowed; the
// in-memory lines stay authoritative. Callers hold s.mu.
func (s *CartStore) persist(ctx context.Context, op string) {
	if err := s.repo.SaveCart(ctx, s.items); err != nil {
		s.metrics.StorageError("cart", op)
		s.log.Warn("cart persist failed", "op", op, "error", err)
	}
}

func mergeDuplicates(items []domain.CartItem) []domain.CartItem {
	var merged []domain.CartItem
	index := make(map[string]int, len(items))

	for _, item := range items {
		if i, ok := index[item.ID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, item)
	}

	return merged
}
