// Package store holds the session-scoped state containers: the cart, the
// authenticated user and the order history. Each store owns one persisted key
// and keeps an in-memory copy that stays authoritative when persistence fails.
package store

import (
	"log/slog"
	"time"

	"github.com/nikolayk812/notesmarket/internal/clock"
	"github.com/nikolayk812/notesmarket/internal/metrics"
)

type options struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	sleep    clock.Sleeper
	delay    time.Duration
	resolver RoleResolver
}

type Option func(*options)

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDelay sets the artificial latency of login and register.
func WithDelay(d time.Duration, sleep clock.Sleeper) Option {
	return func(o *options) {
		o.delay = d
		o.sleep = sleep
	}
}

func WithRoleResolver(r RoleResolver) Option {
	return func(o *options) { o.resolver = r }
}

func newOptions(opts []Option) options {
	o := options{
		log:      slog.Default(),
		now:      time.Now,
		sleep:    clock.Sleep,
		resolver: EmailRoleResolver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sleep == nil {
		o.sleep = clock.Sleep
	}
	return o
}
