package main

import (
	"context"
	"path/filepath"
	"strings"

	"resextract/internal/store"
	"resextract/internal/store/postgres"
	"resextract/internal/store/resfile"
	"resextract/internal/store/sqlite"
)

// openBackend picks the archive backend from the result path: a postgres DSN,
// a sqlite DSN or database file, or a YAML result file.
func openBackend(ctx context.Context, path string) (store.Backend, error) {
	switch {
	case strings.HasPrefix(path, "postgres://"), strings.HasPrefix(path, "postgresql://"):
		return postgres.Open(ctx, path)
	case strings.HasPrefix(path, "sqlite://"):
		return sqlite.Open(ctx, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return sqlite.Open(ctx, path)
	default:
		return resfile.Open(path), nil
	}
}
