// Package sqlite reads result archives stored in a sqlite database, the
// common container for setup and result exports from desktop modelling tools.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resextract/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Backend = (*Backend)(nil)

type Backend struct {
	db     *sql.DB
	filter *store.Filter
}

func Open(ctx context.Context, dsn string) (*Backend, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 30000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragma: %w", err)
	}

	return &Backend{db: db}, nil
}

func (b *Backend) SetFilter(f *store.Filter) { b.filter = f }

func (b *Backend) Close(ctx context.Context) error { return b.db.Close() }

func (b *Backend) LoadHeader(ctx context.Context) (*store.ResultData, error) {
	return b.load(ctx, true)
}

func (b *Backend) Load(ctx context.Context) (*store.ResultData, error) {
	return b.load(ctx, false)
}
