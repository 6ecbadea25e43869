package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/notesmarket/internal/port"
)

const (
	selectEntrySQL          = `SELECT value FROM kv_entries WHERE key = $1`
	selectEntryForUpdateSQL = `SELECT value FROM kv_entries WHERE key = $1 FOR UPDATE`
	claimEntrySQL           = `INSERT INTO kv_entries (key, value) VALUES ($1, ''::bytea)
ON CONFLICT (key) DO NOTHING RETURNING key`
	upsertEntrySQL          = `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteEntrySQL = `DELETE FROM kv_entries WHERE key = $1`
)

type postgresKV struct {
	q    querier
	pool *pgxpool.Pool
}

func NewPostgresKV(pool *pgxpool.Pool) port.KVStore {
	return &postgresKV{
		q:    pool,
		pool: pool,
	}
}

func NewPostgresKVWithTx(tx pgx.Tx) port.KVStore {
	return &postgresKV{
		q:    tx,
		pool: nil, // use provided transaction instead
	}
}

func (r *postgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte
	err := r.q.QueryRow(ctx, selectEntrySQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("key[%s]: %w", key, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return value, nil
}

func (r *postgresKV) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.q.Exec(ctx, upsertEntrySQL, key, value); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}

func (r *postgresKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.q.Exec(ctx, deleteEntrySQL, key); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}

func (r *postgresKV) Update(ctx context.Context, key string, fn port.UpdateFunc) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q querier) (struct{}, error) {
		// The placeholder row gives FOR UPDATE something to lock on first
		// write; a rollback removes it again.
		var claimed string
		err := q.QueryRow(ctx, claimEntrySQL, key).Scan(&claimed)
		found := errors.Is(err, pgx.ErrNoRows)
		if err != nil && !found {
			return struct{}{}, fmt.Errorf("claim q.QueryRow: %w", err)
		}

		var current []byte
		if err := q.QueryRow(ctx, selectEntryForUpdateSQL, key).Scan(&current); err != nil {
			return struct{}{}, fmt.Errorf("q.QueryRow: %w", err)
		}
		if !found {
			current = nil
		}

		next, err := fn(current, found)
		if err != nil {
			return struct{}{}, err
		}

		if _, err := q.Exec(ctx, upsertEntrySQL, key, next); err != nil {
			return struct{}{}, fmt.Errorf("q.Exec: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *postgresKV) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}
