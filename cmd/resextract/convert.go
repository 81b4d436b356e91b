package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resextract/internal/store"
	"resextract/internal/store/postgres"
	"resextract/internal/store/resfile"
	"resextract/internal/store/sqlite"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <sourceArchive> <targetArchive>",
		Short: "Copy a result archive into another storage format",
		Long: `Loads a complete result archive and writes it out again in the format
implied by the target: a .yaml result file, a sqlite database (path or
sqlite:// DSN), or a postgres:// connection string.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			backend, err := openBackend(ctx, args[0])
			if err != nil {
				return err
			}
			defer backend.Close(ctx)

			data, err := backend.Load(ctx)
			if err != nil {
				return err
			}

			return writeArchive(ctx, args[1], data)
		},
	}
}

func writeArchive(ctx context.Context, path string, data *store.ResultData) error {
	switch {
	case strings.HasPrefix(path, "postgres://"), strings.HasPrefix(path, "postgresql://"):
		b, err := postgres.Open(ctx, path)
		if err != nil {
			return err
		}
		defer b.Close(ctx)
		if err := postgres.EnsureSchema(ctx, b); err != nil {
			return err
		}
		return postgres.Write(ctx, b, data)
	case strings.HasPrefix(path, "sqlite://"):
		return writeSqlite(ctx, path, data)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return writeSqlite(ctx, path, data)
	case ".yaml", ".yml":
		return resfile.Write(path, data)
	default:
		return fmt.Errorf("cannot infer archive format from %q", path)
	}
}

func writeSqlite(ctx context.Context, path string, data *store.ResultData) error {
	b, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer b.Close(ctx)
	if err := sqlite.EnsureSchema(ctx, b); err != nil {
		return err
	}
	return sqlite.Write(ctx, b, data)
}
