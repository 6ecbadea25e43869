package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/redis/go-redis/v9"
)

const redisUpdateRetries = 5

type redisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) port.KVStore {
	return &redisKV{
		client: client,
		prefix: prefix,
	}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key[%s]: %w", key, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return data, nil
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}
	return nil
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}
	return nil
}

// Update retries the optimistic WATCH/MULTI transaction when another writer
// touched the key in between.
func (r *redisKV) Update(ctx context.Context, key string, fn port.UpdateFunc) error {
	k := r.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		found := true
		if errors.Is(err, redis.Nil) {
			found = false
		} else if err != nil {
			return fmt.Errorf("tx.Get: %w", err)
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for range redisUpdateRetries {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("client.Watch: %w", err)
		}
		return nil
	}

	return fmt.Errorf("key[%s]: update retries exhausted: %w", key, redis.TxFailedErr)
}

func (r *redisKV) Close() error {
	return r.client.Close()
}

func (r *redisKV) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
