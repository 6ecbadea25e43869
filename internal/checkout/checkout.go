// Package checkout turns the cart of an authenticated session into a payment
// attempt and, when the payment completes, an order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
)

type Session interface {
	Current() (domain.User, bool)
}

type Cart interface {
	Cart() domain.Cart
	Settle(ctx context.Context, paid []domain.CartItem)
}

type OrderRecorder interface {
	Record(ctx context.Context, order domain.Order) domain.Order
}

// Receipt is the outcome of a checkout. Order is nil unless the payment
// completed.
type Receipt struct {
	Payment domain.PaymentResult
	Totals  domain.Totals
	Order   *domain.Order
}

func (r Receipt) Succeeded() bool {
	return r.Order != nil
}

type Service struct {
	session Session
	cart    Cart
	orders  OrderRecorder
	gateway port.PaymentGateway
	allowed []domain.Role
	log     *slog.Logger
}

type Option func(*Service)

// WithAllowedRoles restricts checkout to sessions holding one of roles.
func WithAllowedRoles(roles ...domain.Role) Option {
	return func(s *Service) { s.allowed = roles }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func New(session Session, cart Cart, orders OrderRecorder, gateway port.PaymentGateway, opts ...Option) *Service {
	s := &Service{
		session: session,
		cart:    cart,
		orders:  orders,
		gateway: gateway,
		allowed: []domain.Role{domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "checkout")
	return s
}

// Checkout pays for a snapshot of the current cart with method. A declined
// payment is not an error: the receipt carries the failed result and the
// cart is kept. On success only the snapshotted quantities leave the cart.
func (s *Service) Checkout(ctx context.Context, method domain.PaymentMethod) (Receipt, error) {
	user, ok := s.session.Current()
	if !ok {
		return Receipt{}, domain.ErrUnauthenticated
	}
	if !s.roleAllowed(user.Role) {
		return Receipt{}, fmt.Errorf("%w: role[%s]", domain.ErrForbidden, user.Role)
	}

	cart := s.cart.Cart()
	if cart.IsEmpty() {
		return Receipt{}, domain.ErrEmptyCart
	}

	totals := cart.Totals()
	if totals.Total.IsZero() {
		return Receipt{}, domain.ErrNothingToPay
	}
	items := lineItems(cart.Items)

	result, err := s.gateway.ProcessPayment(ctx, domain.PaymentRequest{
		Amount: totals.Total,
		Method: method,
		Items:  items,
		Customer: domain.Customer{
			Name:  user.Name,
			Email: user.Email,
		},
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("gateway.ProcessPayment: %w", err)
	}

	receipt := Receipt{Payment: result, Totals: totals}

	if !result.Succeeded() {
		s.log.Info("payment failed, cart kept",
			"user_id", user.ID,
			"method", method,
			"reason", result.FailureReason,
		)
		return receipt, nil
	}

	order := s.orders.Record(ctx, domain.Order{
		TransactionID: result.TransactionID,
		Items:         items,
		Total:         totals.Total,
		PaymentMethod: result.Method,
		Date:          result.ProcessedAt,
	})
	s.cart.Settle(ctx, cart.Items)

	receipt.Order = &order
	return receipt, nil
}

func (s *Service) roleAllowed(role domain.Role) bool {
	for _, r := range s.allowed {
		if r == role {
			return true
		}
	}
	return false
}

func lineItems(items []domain.CartItem) []domain.LineItem {
	result := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return result
}
