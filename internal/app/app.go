// Package app wires the storage backend, stores, payment gateway and
// checkout into one explicitly constructed container.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/notesmarket/internal/catalog"
	"github.com/nikolayk812/notesmarket/internal/checkout"
	"github.com/nikolayk812/notesmarket/internal/clock"
	"github.com/nikolayk812/notesmarket/internal/config"
	"github.com/nikolayk812/notesmarket/internal/metrics"
	"github.com/nikolayk812/notesmarket/internal/payment"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/repository"
	"github.com/nikolayk812/notesmarket/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.Metrics

	KV       port.KVStore
	Auth     *store.AuthStore
	Cart     *store.CartStore
	Orders   *store.OrderStore
	Gateway  *payment.Breaker
	Checkout *checkout.Service
	Catalog  *catalog.Catalog
}

// New opens the configured backend and builds the App on top of it.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (*App, error) {
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenKV: %w", err)
	}

	return NewWithKV(ctx, cfg, log, reg, kv), nil
}

// NewWithKV builds the App on kv, which it takes ownership of. Stores that
// fail to load start empty; the failure is only logged.
func NewWithKV(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, kv port.KVStore) *App {
	m := metrics.New(reg)

	storeOpts := []store.Option{
		store.WithLogger(log),
		store.WithMetrics(m),
		store.WithDelay(cfg.AuthDelay, clock.Sleep),
	}

	a := &App{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		KV:      kv,
		Auth:    store.NewAuthStore(repository.NewUser(kv), storeOpts...),
		Cart:    store.NewCartStore(repository.NewCart(kv), cfg.Currency, storeOpts...),
		Orders:  store.NewOrderStore(repository.NewOrder(kv), storeOpts...),
		Catalog: catalog.Default(),
	}

	sim := payment.NewSimulator(
		payment.WithDelayRange(cfg.PaymentMinDelay, cfg.PaymentMaxDelay),
		payment.WithLogger(log),
		payment.WithMetrics(m),
	)
	a.Gateway = payment.NewBreaker(sim, cfg.BreakerMaxFailures, cfg.BreakerTimeout, log)
	a.Checkout = checkout.New(a.Auth, a.Cart, a.Orders, a.Gateway, checkout.WithLogger(log))

	inits := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"auth", a.Auth.Init},
		{"cart", a.Cart.Init},
		{"orders", a.Orders.Init},
	}
	for _, i := range inits {
		if err := i.fn(ctx); err != nil {
			log.Error("store init failed", "store", i.name, "error", err)
		}
	}

	return a
}

func (a *App) Close() error {
	if err := a.KV.Close(); err != nil {
		return fmt.Errorf("kv.Close: %w", err)
	}
	return nil
}

// OpenKV connects to the backend named by cfg.StorageDriver.
func OpenKV(ctx context.Context, cfg config.Config) (port.KVStore, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return repository.NewMemoryKV(), nil

	case config.DriverFile:
		kv, err := repository.NewFileKV(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("repository.NewFileKV: %w", err)
		}
		return kv, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, errors.Join(fmt.Errorf("client.Ping: %w", err), client.Close())
		}
		return repository.NewRedisKV(client, cfg.RedisPrefix), nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewPostgresKV(pool), nil

	default:
		return nil, fmt.Errorf("storage driver[%s] is not valid", cfg.StorageDriver)
	}
}
