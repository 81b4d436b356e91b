package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resextract/internal/store"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS times (
    step  INTEGER PRIMARY KEY,
    stamp TEXT NOT NULL
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
    chainage  REAL NOT NULL,
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
    index_list TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS item_values (
    item_id INTEGER NOT NULL,
    step    INTEGER NOT NULL,
    element INTEGER NOT NULL,
    value   REAL NOT NULL,
    PRIMARY KEY (item_id, step, element)
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON data_items (owner_kind, owner_idx);
CREATE INDEX IF NOT EXISTS idx_values_item ON item_values (item_id, step, element);
`

// EnsureSchema creates the archive tables. Idempotent.
func EnsureSchema(ctx context.Context, b *Backend) error {
	if _, err := b.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Write stores a fully loaded archive into the database, replacing nothing:
// it assumes a fresh database and is used by the convert command and tests.
func Write(ctx context.Context, b *Backend, rd *store.ResultData) error {
	if err := EnsureSchema(ctx, b); err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for step, stamp := range rd.Times {
		if _, err := tx.ExecContext(ctx, `INSERT INTO times (step, stamp) VALUES (?, ?)`,
			step, stamp.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("writing time axis: %w", err)
		}
	}

	itemID := 0
	writeItems := func(kind string, ownerIdx int, items []*store.DataItem) error {
		for _, item := range items {
			itemID++
			if _, err := tx.ExecContext(ctx, `
INSERT INTO data_items (item_id, owner_kind, owner_idx, quantity, unit, index_list)
VALUES (?, ?, ?, ?, ?, ?)`,
				itemID, kind, ownerIdx, item.Quantity.ID, item.Quantity.Unit,
				encodeIndexList(item.IndexList)); err != nil {
				return fmt.Errorf("writing data item: %w", err)
			}
			if !item.HasValues() {
				continue
			}
			for step := range rd.Times {
				for e := 0; e < item.Elements(); e++ {
					if _, err := tx.ExecContext(ctx, `
INSERT INTO item_values (item_id, step, element, value) VALUES (?, ?, ?, ?)`,
						itemID, step, e, item.Value(step, e)); err != nil {
						return fmt.Errorf("writing values: %w", err)
					}
				}
			}
		}
		return nil
	}

	for i, n := range rd.Nodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes (idx, id) VALUES (?, ?)`, i, n.ID); err != nil {
			return fmt.Errorf("writing node: %w", err)
		}
		if err := writeItems("node", i, n.Items); err != nil {
			return err
		}
	}
	for i, r := range rd.Reaches {
		if _, err := tx.ExecContext(ctx, `INSERT INTO reaches (idx, name) VALUES (?, ?)`, i, r.Name); err != nil {
			return fmt.Errorf("writing reach: %w", err)
		}
		for p, gp := range r.GridPoints {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO grid_points (reach_idx, position, chainage) VALUES (?, ?, ?)`, i, p, gp.Chainage); err != nil {
				return fmt.Errorf("writing grid point: %w", err)
			}
		}
		if err := writeItems("reach", i, r.Items); err != nil {
			return err
		}
	}
	for i, c := range rd.Catchments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catchments (idx, id) VALUES (?, ?)`, i, c.ID); err != nil {
			return fmt.Errorf("writing catchment: %w", err)
		}
		if err := writeItems("catchment", i, c.Items); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing archive: %w", err)
	}
	return nil
}

func encodeIndexList(index []int) string {
	if len(index) == 0 {
		return ""
	}
	parts := make([]string, len(index))
	for i, gp := range index {
		parts[i] = strconv.Itoa(gp)
	}
	return strings.Join(parts, ",")
}

func decodeIndexList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	index := make([]int, len(parts))
	for i, p := range parts {
		gp, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad index list %q: %w", s, err)
		}
		index[i] = gp
	}
	return index, nil
}
