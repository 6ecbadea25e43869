// Package payment simulates a payment provider. Nothing leaves the process:
// outcomes are drawn from a per-method success table after a random delay.
package payment

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/notesmarket/internal/clock"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/metrics"
)

const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

// DefaultSuccessRates is the probability of a completed payment per method.
var DefaultSuccessRates = map[domain.PaymentMethod]float64{
	domain.PaymentMethodCard:       0.95,
	domain.PaymentMethodPayPal:     0.90,
	domain.PaymentMethodUPI:        0.93,
	domain.PaymentMethodNetBanking: 0.88,
}

// Rand is the random source of the simulator. *rand.Rand from math/rand/v2
// satisfies it but is not safe for concurrent use.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Int64N(n int64) int64
}

// globalRand uses the concurrency-safe top-level functions of math/rand/v2.
type globalRand struct{}

func (globalRand) Float64() float64     { return rand.Float64() }
func (globalRand) IntN(n int) int       { return rand.IntN(n) }
func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

type Simulator struct {
	rand     Rand
	sleep    clock.Sleeper
	now      func() time.Time
	minDelay time.Duration
	maxDelay time.Duration
	rates    map[domain.PaymentMethod]float64
	log      *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Simulator)

func WithRand(r Rand) Option {
	return func(s *Simulator) { s.rand = r }
}

func WithSleeper(sleep clock.Sleeper) Option {
	return func(s *Simulator) { s.sleep = sleep }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithDelayRange bounds the simulated processing time. max below min is
// treated as min.
func WithDelayRange(minDelay, maxDelay time.Duration) Option {
	return func(s *Simulator) {
		s.minDelay = minDelay
		s.maxDelay = maxDelay
	}
}

// WithSuccessRates replaces the probability table. Methods missing from
// rates always fail.
func WithSuccessRates(rates map[domain.PaymentMethod]float64) Option {
	return func(s *Simulator) { s.rates = rates }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		rand:     globalRand{},
		sleep:    clock.Sleep,
		now:      time.Now,
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		rates:    DefaultSuccessRates,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "payment")
	return s
}

// ProcessPayment validates req before anything else: an invalid request
// returns a *domain.ValidationError without waiting or drawing. A declined
// payment is a result with status failed, not an error. The only other
// error is the context's, when it ends during the delay.
func (s *Simulator) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	if err := req.Validate(); err != nil {
		s.log.Debug("payment rejected", "error", err)
		return domain.PaymentResult{}, err
	}

	if err := s.sleep(ctx, s.delay()); err != nil {
		return domain.PaymentResult{}, err
	}

	result := domain.PaymentResult{
		TransactionID: s.transactionID(),
		Method:        req.Method,
		Amount:        req.Amount,
		ProcessedAt:   s.now(),
	}

	if s.rand.Float64() < s.rates[req.Method] {
		result.Status = domain.PaymentStatusCompleted
	} else {
		result.Status = domain.PaymentStatusFailed
		result.FailureReason = domain.FailureReasons[s.rand.IntN(len(domain.FailureReasons))]
	}

	s.metrics.PaymentProcessed(string(result.Method), string(result.Status))
	s.log.Info("payment processed",
		"transaction_id", result.TransactionID,
		"method", result.Method,
		"status", result.Status,
		"amount", result.Amount.String(),
	)

	return result, nil
}

func (s *Simulator) delay() time.Duration {
	if s.maxDelay <= s.minDelay {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rand.Int64N(int64(s.maxDelay-s.minDelay)+1))
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// transactionID has the form TXN-<unix millis>-<6 random chars>.
func (s *Simulator) transactionID() string {
	var b strings.Builder
	b.WriteString("TXN-")
	b.WriteString(strconv.FormatInt(s.now().UnixMilli(), 10))
	b.WriteByte('-')
	for range 6 {
		b.WriteByte(idAlphabet[s.rand.IntN(len(idAlphabet))])
	}
	return b.String()
}
