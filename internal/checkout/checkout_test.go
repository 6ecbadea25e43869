package checkout_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/nikolayk812/notesmarket/internal/checkout"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/payment"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/repository"
	"github.com/nikolayk812/notesmarket/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

// fixedRand makes every simulated payment roll the same value.
type fixedRand float64

func (r fixedRand) Float64() float64   { return float64(r) }
func (r fixedRand) IntN(int) int       { return 0 }
func (r fixedRand) Int64N(int64) int64 { return 0 }

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

type CheckoutSuite struct {
	suite.Suite

	kv     port.KVStore
	auth   *store.AuthStore
	cart   *store.CartStore
	orders *store.OrderStore
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) SetupTest() {
	ctx := s.T().Context()
	log := store.WithLogger(slog.New(slog.DiscardHandler))

	s.kv = repository.NewMemoryKV()
	s.auth = store.NewAuthStore(repository.NewUser(s.kv), log, store.WithDelay(0, noSleep))
	s.cart = store.NewCartStore(repository.NewCart(s.kv), currency.USD, log)
	s.orders = store.NewOrderStore(repository.NewOrder(s.kv), log)

	s.Require().NoError(s.auth.Init(ctx))
	s.Require().NoError(s.cart.Init(ctx))
	s.Require().NoError(s.orders.Init(ctx))
}

func (s *CheckoutSuite) service(roll float64, opts ...checkout.Option) *checkout.Service {
	sim := payment.NewSimulator(
		payment.WithRand(fixedRand(roll)),
		payment.WithSleeper(noSleep),
		payment.WithLogger(slog.New(slog.DiscardHandler)),
	)
	opts = append([]checkout.Option{checkout.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return checkout.New(s.auth, s.cart, s.orders, sim, opts...)
}

func (s *CheckoutSuite) login(email string) domain.User {
	user, err := s.auth.Register(s.T().Context(), email, "password1", "Jo", "")
	s.Require().NoError(err)
	return user
}

func (s *CheckoutSuite) fillCart() {
	ctx := s.T().Context()
	s.cart.Add(ctx, domain.CartItem{ID: "n1", Title: "Calculus I", Price: decimal.RequireFromString("15.99"), Quantity: 1})
	s.cart.Add(ctx, domain.CartItem{ID: "n2", Title: "Genetics", Price: decimal.RequireFromString("5"), Quantity: 2})
}

func (s *CheckoutSuite) TestSuccessRecordsOrderAndClearsCart() {
	ctx := s.T().Context()
	s.login("buyer@x.com")
	s.fillCart()

	receipt, err := s.service(0).Checkout(ctx, domain.PaymentMethodCard)
	s.Require().NoError(err)

	s.True(receipt.Succeeded())
	s.Require().NotNil(receipt.Order)
	s.Equal(domain.OrderStatusCompleted, receipt.Order.Status)
	s.Equal(receipt.Payment.TransactionID, receipt.Order.TransactionID)
	s.Equal(domain.PaymentMethodCard, receipt.Order.PaymentMethod)
	s.True(decimal.RequireFromString("28.589").Equal(receipt.Order.Total.Amount), receipt.Order.Total.String())
	s.Len(receipt.Order.Items, 2)
	s.Equal(3, receipt.Totals.Items)

	s.True(s.cart.IsEmpty())

	orders := s.orders.List()
	s.Require().Len(orders, 1)
	s.Equal(receipt.Order.ID, orders[0].ID)
}

func (s *CheckoutSuite) TestFailedPaymentKeepsCart() {
	ctx := s.T().Context()
	s.login("buyer@x.com")
	s.fillCart()

	receipt, err := s.service(0.99).Checkout(ctx, domain.PaymentMethodPayPal)
	s.Require().NoError(err)

	s.False(receipt.Succeeded())
	s.Nil(receipt.Order)
	s.Equal(domain.PaymentStatusFailed, receipt.Payment.Status)
	s.Equal(domain.FailureInsufficientFunds, receipt.Payment.FailureReason)

	s.Equal(3, s.cart.Totals().Items)
	s.Empty(s.orders.List())
}

func (s *CheckoutSuite) TestGates() {
	tests := []struct {
		name    string
		email   string
		fill    bool
		method  domain.PaymentMethod
		opts    []checkout.Option
		wantErr error
	}{
		{name: "no session: error", fill: true, method: domain.PaymentMethodCard, wantErr: domain.ErrUnauthenticated},
		{
			name:    "role not allowed: error",
			email:   "seller@x.com",
			fill:    true,
			method:  domain.PaymentMethodCard,
			opts:    []checkout.Option{checkout.WithAllowedRoles(domain.RoleBuyer)},
			wantErr: domain.ErrForbidden,
		},
		{name: "empty cart: error", email: "buyer@x.com", method: domain.PaymentMethodCard, wantErr: domain.ErrEmptyCart},
		{name: "unknown method: error", email: "buyer@x.com", fill: true, method: "cash", wantErr: domain.ErrInvalidPayment},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.email != "" {
				s.login(tt.email)
			}
			if tt.fill {
				s.fillCart()
			}

			receipt, err := s.service(0, tt.opts...).Checkout(s.T().Context(), tt.method)
			s.Require().ErrorIs(err, tt.wantErr)
			s.False(receipt.Succeeded())
			s.Empty(s.orders.List())
		})
	}
}

type brokenGateway struct{}

var errGatewayDown = errors.New("gateway down")

func (brokenGateway) ProcessPayment(context.Context, domain.PaymentRequest) (domain.PaymentResult, error) {
	return domain.PaymentResult{}, errGatewayDown
}

func (s *CheckoutSuite) TestGatewayErrorKeepsCart() {
	s.login("buyer@x.com")
	s.fillCart()

	svc := checkout.New(s.auth, s.cart, s.orders, brokenGateway{}, checkout.WithLogger(slog.New(slog.DiscardHandler)))

	_, err := svc.Checkout(s.T().Context(), domain.PaymentMethodCard)
	s.Require().ErrorIs(err, errGatewayDown)
	s.False(s.cart.IsEmpty())
}

func (s *CheckoutSuite) TestOrderSurvivesReinit() {
	ctx := s.T().Context()
	s.login("buyer@x.com")
	s.fillCart()

	receipt, err := s.service(0).Checkout(ctx, domain.PaymentMethodUPI)
	s.Require().NoError(err)

	orders := store.NewOrderStore(repository.NewOrder(s.kv), store.WithLogger(slog.New(slog.DiscardHandler)))
	s.Require().NoError(orders.Init(ctx))
	s.Require().Len(orders.List(), 1)
	s.Equal(receipt.Order.ID, orders.List()[0].ID)

	cart := store.NewCartStore(repository.NewCart(s.kv), currency.USD, store.WithLogger(slog.New(slog.DiscardHandler)))
	s.Require().NoError(cart.Init(ctx))
	s.True(cart.IsEmpty())
}

func (s *CheckoutSuite) TestFreeCartHasNothingToPay() {
	ctx := s.T().Context()
	s.login("buyer@x.com")
	s.cart.Add(ctx, domain.CartItem{ID: "n9", Title: "World History", Price: decimal.Zero, Quantity: 1})

	_, err := s.service(0).Checkout(ctx, domain.PaymentMethodCard)
	s.Require().ErrorIs(err, domain.ErrNothingToPay)
	s.False(s.cart.IsEmpty())
	s.Empty(s.orders.List())
}

// midPaymentGateway adds to the cart while the payment is in flight.
type midPaymentGateway struct {
	next port.PaymentGateway
	cart *store.CartStore
}

func (g midPaymentGateway) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	g.cart.Add(ctx, domain.CartItem{ID: "n1", Title: "Calculus I", Price: decimal.RequireFromString("15.99"), Quantity: 1})
	g.cart.Add(ctx, domain.CartItem{ID: "n3", Title: "Optics", Price: decimal.RequireFromString("3"), Quantity: 1})
	return g.next.ProcessPayment(ctx, req)
}

func (s *CheckoutSuite) TestLinesAddedDuringPaymentStay() {
	ctx := s.T().Context()
	s.login("buyer@x.com")
	s.fillCart()

	sim := payment.NewSimulator(
		payment.WithRand(fixedRand(0)),
		payment.WithSleeper(noSleep),
		payment.WithLogger(slog.New(slog.DiscardHandler)),
	)
	svc := checkout.New(s.auth, s.cart, s.orders, midPaymentGateway{next: sim, cart: s.cart},
		checkout.WithLogger(slog.New(slog.DiscardHandler)))

	receipt, err := svc.Checkout(ctx, domain.PaymentMethodCard)
	s.Require().NoError(err)
	s.Require().True(receipt.Succeeded())
	s.Equal(3, receipt.Totals.Items)

	items := s.cart.Items()
	s.Require().Len(items, 2)
	s.Equal("n1", items[0].ID)
	s.Equal(1, items[0].Quantity)
	s.Equal("n3", items[1].ID)
	s.Equal(1, items[1].Quantity)
}
