// Package postgres implements the keyed store on PostgreSQL via pgx.
//
// Entries live in a single kv table. An insertion sequence column preserves
// the engine's first-write ordering; Set never deletes and only the value of
// an existing key may change, so the sequence is stable for a key's lifetime.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	streamless "github.com/streamless/streamless"
	"github.com/streamless/streamless/store"
)

var _ store.KeyedStore = (*Store)(nil)

// Schema creates the kv table. Callers run it once at deploy time, or pass
// it through their own migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS streamless_kv (
    seq   BIGSERIAL PRIMARY KEY,
    key   TEXT NOT NULL UNIQUE,
    value TEXT NOT NULL
);
`

// Store is a PostgreSQL-backed KeyedStore.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and verifies it is reachable.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool, for callers that manage their own.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the kv schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// Pool returns the underlying pool for direct access.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM streamless_kv WHERE key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: has %q: %w", key, err)
	}
	return exists, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM streamless_kv WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", streamless.ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("postgres: get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO streamless_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: set %q: %w", key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
