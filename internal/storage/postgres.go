package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps values in the portal_storage table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	origin string
}

// NewPostgres returns a store for origin. The portal_storage migration must have run.
func NewPostgres(pool *pgxpool.Pool, origin string) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("storage: postgres pool not configured")
	}
	return &PostgresStore{pool: pool, origin: origin}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	const query = `
        SELECT value FROM portal_storage
        WHERE origin=$1 AND key=$2`

	var value string
	err := s.pool.QueryRow(ctx, query, s.origin, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: postgres get: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO portal_storage (origin, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (origin, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	if _, err := s.pool.Exec(ctx, query, s.origin, key, value); err != nil {
		return fmt.Errorf("storage: postgres set: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	const query = `
        DELETE FROM portal_storage
        WHERE origin=$1 AND key=$2`

	if _, err := s.pool.Exec(ctx, query, s.origin, key); err != nil {
		return fmt.Errorf("storage: postgres delete: %w", err)
	}
	return nil
}
