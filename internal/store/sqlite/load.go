package sqlite

import (
	"context"
	"fmt"
	"time"

	"resextract/internal/selector"
	"resextract/internal/store"
)

func (b *Backend) load(ctx context.Context, headerOnly bool) (*store.ResultData, error) {
	rd := &store.ResultData{}

	times, err := b.loadTimes(ctx)
	if err != nil {
		return nil, err
	}
	rd.Times = times

	if rd.Nodes, err = b.loadNodes(ctx, headerOnly, len(times)); err != nil {
		return nil, err
	}
	if rd.Reaches, err = b.loadReaches(ctx, headerOnly, len(times)); err != nil {
		return nil, err
	}
	if rd.Catchments, err = b.loadCatchments(ctx, headerOnly, len(times)); err != nil {
		return nil, err
	}
	return rd, nil
}

func (b *Backend) loadTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT stamp FROM times ORDER BY step`)
	if err != nil {
		return nil, fmt.Errorf("loading time axis: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var stamp string
		if err := rows.Scan(&stamp); err != nil {
			return nil, fmt.Errorf("loading time axis: %w", err)
		}
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, fmt.Errorf("loading time axis: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (b *Backend) loadNodes(ctx context.Context, headerOnly bool, timeSteps int) ([]*store.Node, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT idx, id FROM nodes ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*store.Node
	var idxs []int
	for rows.Next() {
		var idx int
		var id string
		if err := rows.Scan(&idx, &id); err != nil {
			return nil, fmt.Errorf("loading nodes: %w", err)
		}
		nodes = append(nodes, &store.Node{ID: id})
		idxs = append(idxs, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, n := range nodes {
		keep := !headerOnly && b.filter.Admits(selector.Node, n.ID)
		items, err := b.loadItems(ctx, "node", idxs[i], keep, timeSteps)
		if err != nil {
			return nil, err
		}
		n.Items = items
	}
	return nodes, nil
}

func (b *Backend) loadCatchments(ctx context.Context, headerOnly bool, timeSteps int) ([]*store.Catchment, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT idx, id FROM catchments ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("loading catchments: %w", err)
	}
	defer rows.Close()

	var catchments []*store.Catchment
	var idxs []int
	for rows.Next() {
		var idx int
		var id string
		if err := rows.Scan(&idx, &id); err != nil {
			return nil, fmt.Errorf("loading catchments: %w", err)
		}
		catchments = append(catchments, &store.Catchment{ID: id})
		idxs = append(idxs, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, c := range catchments {
		keep := !headerOnly && b.filter.Admits(selector.Catchment, c.ID)
		items, err := b.loadItems(ctx, "catchment", idxs[i], keep, timeSteps)
		if err != nil {
			return nil, err
		}
		c.Items = items
	}
	return catchments, nil
}

func (b *Backend) loadReaches(ctx context.Context, headerOnly bool, timeSteps int) ([]*store.Reach, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT idx, name FROM reaches ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("loading reaches: %w", err)
	}
	defer rows.Close()

	var reaches []*store.Reach
	var idxs []int
	for rows.Next() {
		var idx int
		var name string
		if err := rows.Scan(&idx, &name); err != nil {
			return nil, fmt.Errorf("loading reaches: %w", err)
		}
		reaches = append(reaches, &store.Reach{Name: name})
		idxs = append(idxs, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, r := range reaches {
		gridPoints, err := b.loadGridPoints(ctx, idxs[i])
		if err != nil {
			return nil, err
		}
		r.GridPoints = gridPoints

		keep := !headerOnly && b.filter.Admits(selector.Reach, r.Name)
		items, err := b.loadItems(ctx, "reach", idxs[i], keep, timeSteps)
		if err != nil {
			return nil, err
		}
		r.Items = items
	}
	return reaches, nil
}

func (b *Backend) loadGridPoints(ctx context.Context, reachIdx int) ([]store.GridPoint, error) {
	rows, err := b.db.QueryContext(ctx, `
SELECT chainage FROM grid_points WHERE reach_idx = ? ORDER BY position`, reachIdx)
	if err != nil {
		return nil, fmt.Errorf("loading grid points: %w", err)
	}
	defer rows.Close()

	var gridPoints []store.GridPoint
	for rows.Next() {
		var chainage float64
		if err := rows.Scan(&chainage); err != nil {
			return nil, fmt.Errorf("loading grid points: %w", err)
		}
		gridPoints = append(gridPoints, store.GridPoint{Chainage: chainage})
	}
	return gridPoints, rows.Err()
}

// loadItems reads the data items of one location. Values are only queried
// when the filter admits the owner; this is where the filter saves memory and
// I/O on large archives.
func (b *Backend) loadItems(ctx context.Context, kind string, ownerIdx int, withValues bool, timeSteps int) ([]*store.DataItem, error) {
	rows, err := b.db.QueryContext(ctx, `
SELECT item_id, quantity, unit, index_list
FROM data_items WHERE owner_kind = ? AND owner_idx = ? ORDER BY item_id`, kind, ownerIdx)
	if err != nil {
		return nil, fmt.Errorf("loading data items: %w", err)
	}
	defer rows.Close()

	type itemRow struct {
		id       int
		quantity store.Quantity
		index    []int
	}
	var itemRows []itemRow
	for rows.Next() {
		var row itemRow
		var indexList string
		if err := rows.Scan(&row.id, &row.quantity.ID, &row.quantity.Unit, &indexList); err != nil {
			return nil, fmt.Errorf("loading data items: %w", err)
		}
		if row.index, err = decodeIndexList(indexList); err != nil {
			return nil, err
		}
		itemRows = append(itemRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]*store.DataItem, 0, len(itemRows))
	for _, row := range itemRows {
		var values [][]float64
		if withValues {
			elements := len(row.index)
			if elements == 0 {
				elements = 1
			}
			if values, err = b.loadValues(ctx, row.id, timeSteps, elements); err != nil {
				return nil, err
			}
		}
		items = append(items, store.NewDataItem(row.quantity, row.index, values))
	}
	return items, nil
}

func (b *Backend) loadValues(ctx context.Context, itemID, timeSteps, elements int) ([][]float64, error) {
	rows, err := b.db.QueryContext(ctx, `
SELECT step, element, value FROM item_values WHERE item_id = ? ORDER BY step, element`, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading values: %w", err)
	}
	defer rows.Close()

	values := make([][]float64, timeSteps)
	for t := range values {
		values[t] = make([]float64, elements)
	}
	for rows.Next() {
		var step, element int
		var value float64
		if err := rows.Scan(&step, &element, &value); err != nil {
			return nil, fmt.Errorf("loading values: %w", err)
		}
		if step < 0 || step >= timeSteps || element < 0 || element >= elements {
			return nil, fmt.Errorf("value out of range: item %d step %d element %d", itemID, step, element)
		}
		values[step][element] = value
	}
	return values, rows.Err()
}
