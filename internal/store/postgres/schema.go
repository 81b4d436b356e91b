package postgres

import (
	"context"
	"fmt"

	"resextract/internal/store"
)

// EnsureSchema creates the archive tables. All DDL runs in one call, which
// postgres executes atomically; IF NOT EXISTS keeps it idempotent.
func EnsureSchema(ctx context.Context, b *Backend) error {
	ddl := `
CREATE TABLE IF NOT EXISTS times (
    step  INTEGER PRIMARY KEY,
    stamp TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
    idx INTEGER PRIMARY KEY,
    id  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reaches (
    idx  INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grid_points (
    reach_idx INTEGER NOT NULL,
    position  INTEGER NOT NULL,
    chainage  DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (reach_idx, position)
);

CREATE TABLE IF NOT EXISTS catchments (
    idx INTEGER PRIMARY KEY,
    id  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS data_items (
    item_id    INTEGER PRIMARY KEY,
    owner_kind TEXT NOT NULL,
    owner_idx  INTEGER NOT NULL,
    quantity   TEXT NOT NULL,
    unit       TEXT NOT NULL DEFAULT '',
    index_list INTEGER[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS item_values (
    item_id INTEGER NOT NULL,
    step    INTEGER NOT NULL,
    element INTEGER NOT NULL,
    value   DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (item_id, step, element)
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON data_items (owner_kind, owner_idx);
`
	if _, err := b.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Write publishes a fully loaded archive. Used by the convert command and the
// integration tests; assumes empty tables.
func Write(ctx context.Context, b *Backend, rd *store.ResultData) error {
	if err := EnsureSchema(ctx, b); err != nil {
		return err
	}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for step, stamp := range rd.Times {
		if _, err := tx.Exec(ctx, `INSERT INTO times (step, stamp) VALUES ($1, $2)`, step, stamp); err != nil {
			return fmt.Errorf("writing time axis: %w", err)
		}
	}

	itemID := 0
	writeItems := func(kind string, ownerIdx int, items []*store.DataItem) error {
		for _, item := range items {
			itemID++
			indexList := item.IndexList
			if indexList == nil {
				indexList = []int{}
			}
			if _, err := tx.Exec(ctx, `
INSERT INTO data_items (item_id, owner_kind, owner_idx, quantity, unit, index_list)
VALUES ($1, $2, $3, $4, $5, $6)`,
				itemID, kind, ownerIdx, item.Quantity.ID, item.Quantity.Unit, indexList); err != nil {
				return fmt.Errorf("writing data item: %w", err)
			}
			if !item.HasValues() {
				continue
			}
			for step := range rd.Times {
				for e := 0; e < item.Elements(); e++ {
					if _, err := tx.Exec(ctx, `
INSERT INTO item_values (item_id, step, element, value) VALUES ($1, $2, $3, $4)`,
						itemID, step, e, item.Value(step, e)); err != nil {
						return fmt.Errorf("writing values: %w", err)
					}
				}
			}
		}
		return nil
	}

	for i, n := range rd.Nodes {
		if _, err := tx.Exec(ctx, `INSERT INTO nodes (idx, id) VALUES ($1, $2)`, i, n.ID); err != nil {
			return fmt.Errorf("writing node: %w", err)
		}
		if err := writeItems("node", i, n.Items); err != nil {
			return err
		}
	}
	for i, r := range rd.Reaches {
		if _, err := tx.Exec(ctx, `INSERT INTO reaches (idx, name) VALUES ($1, $2)`, i, r.Name); err != nil {
			return fmt.Errorf("writing reach: %w", err)
		}
		for p, gp := range r.GridPoints {
			if _, err := tx.Exec(ctx, `
INSERT INTO grid_points (reach_idx, position, chainage) VALUES ($1, $2, $3)`, i, p, gp.Chainage); err != nil {
				return fmt.Errorf("writing grid point: %w", err)
			}
		}
		if err := writeItems("reach", i, r.Items); err != nil {
			return err
		}
	}
	for i, c := range rd.Catchments {
		if _, err := tx.Exec(ctx, `INSERT INTO catchments (idx, id) VALUES ($1, $2)`, i, c.ID); err != nil {
			return fmt.Errorf("writing catchment: %w", err)
		}
		if err := writeItems("catchment", i, c.Items); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing archive: %w", err)
	}
	return nil
}
