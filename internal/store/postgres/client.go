// Package postgres reads result archives published to a shared postgres
// database, for teams that centralize simulation output instead of passing
// result files around.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"resextract/internal/store"
)

var _ store.Backend = (*Backend)(nil)

type Backend struct {
	pool   *pgxpool.Pool
	filter *store.Filter
}

func Open(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Backend{pool: pool}, nil
}

func (b *Backend) SetFilter(f *store.Filter) { b.filter = f }

func (b *Backend) Close(ctx context.Context) error {
	b.pool.Close()
	return nil
}

func (b *Backend) LoadHeader(ctx context.Context) (*store.ResultData, error) {
	return b.load(ctx, true)
}

func (b *Backend) Load(ctx context.Context) (*store.ResultData, error) {
	return b.load(ctx, false)
}
