package store_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/repository"
	"github.com/nikolayk812/notesmarket/internal/store"
	"golang.org/x/text/currency"
)

var errDiskFull = errors.New("disk full")

var cmpCurrency = cmp.Comparer(func(a, b currency.Unit) bool {
	return a == b
})

// flakyKV wraps a real store and fails the operations whose error is set.
type flakyKV struct {
	port.KVStore

	getErr    error
	setErr    error
	deleteErr error
}

func newFlakyKV() *flakyKV {
	return &flakyKV{KVStore: repository.NewMemoryKV()}
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.KVStore.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.KVStore.Delete(ctx, key)
}

func (f *flakyKV) Update(ctx context.Context, key string, fn port.UpdateFunc) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KVStore.Update(ctx, key, fn)
}

// countingSleeper records calls instead of waiting.
type countingSleeper struct {
	calls atomic.Int32
	total atomic.Int64
}

func (c *countingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	c.calls.Add(1)
	c.total.Add(int64(d))
	return ctx.Err()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func quietLogger() store.Option {
	return store.WithLogger(slog.New(slog.DiscardHandler))
}
