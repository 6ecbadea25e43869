package repository_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kvContract struct {
	newKV func(t *testing.T) port.KVStore
	// concurrentUpdates is false for backends whose optimistic retries may
	// legitimately give up under heavy contention.
	concurrentUpdates bool
}

func (c kvContract) run(t *testing.T) {
	t.Run("get missing key: not found", func(t *testing.T) {
		kv := c.newKV(t)

		_, err := kv.Get(t.Context(), "missing")
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("set then get: ok", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()

		require.NoError(t, kv.Set(ctx, "cart", []byte(`[{"id":"a"}]`)))
		require.NoError(t, kv.Set(ctx, "cart", []byte(`[]`)))

		got, err := kv.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("delete: ok", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()

		require.NoError(t, kv.Set(ctx, "user", []byte(`{}`)))
		require.NoError(t, kv.Delete(ctx, "user"))
		require.NoError(t, kv.Delete(ctx, "user"))

		_, err := kv.Get(ctx, "user")
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("update missing key: ok", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()

		err := kv.Update(ctx, "orders", func(current []byte, found bool) ([]byte, error) {
			assert.False(t, found)
			assert.Empty(t, current)
			return []byte(`["first"]`), nil
		})
		require.NoError(t, err)

		got, err := kv.Get(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, `["first"]`, string(got))
	})

	t.Run("update existing key: ok", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()

		require.NoError(t, kv.Set(ctx, "orders", []byte(`1`)))

		err := kv.Update(ctx, "orders", func(current []byte, found bool) ([]byte, error) {
			assert.True(t, found)
			return append(current, '2'), nil
		})
		require.NoError(t, err)

		got, err := kv.Get(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, `12`, string(got))
	})

	t.Run("update func error: value kept", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()
		boom := errors.New("boom")

		require.NoError(t, kv.Set(ctx, "orders", []byte(`kept`)))

		err := kv.Update(ctx, "orders", func([]byte, bool) ([]byte, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)

		got, err := kv.Get(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, `kept`, string(got))
	})

	if !c.concurrentUpdates {
		return
	}

	t.Run("concurrent updates: none lost", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()
		const writers = 8

		require.NoError(t, kv.Set(ctx, "counter", []byte("0")))

		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := kv.Update(ctx, "counter", func(current []byte, _ bool) ([]byte, error) {
					n, err := strconv.Atoi(string(current))
					if err != nil {
						return nil, err
					}
					return []byte(strconv.Itoa(n + 1)), nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := kv.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(writers), string(got))
	})

	t.Run("concurrent first updates: none lost", func(t *testing.T) {
		kv := c.newKV(t)
		ctx := t.Context()
		const writers = 8

		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := kv.Update(ctx, "fresh", func(current []byte, found bool) ([]byte, error) {
					if !found {
						return []byte("1"), nil
					}
					n, err := strconv.Atoi(string(current))
					if err != nil {
						return nil, err
					}
					return []byte(strconv.Itoa(n + 1)), nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := kv.Get(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(writers), string(got))
	})
}
