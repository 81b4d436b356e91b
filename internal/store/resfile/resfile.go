// Package resfile reads YAML result archives. The format is a plain dump of
// the result data model: a shared time axis, then nodes, reaches and
// catchments with their data items and per-time-step value rows.
package resfile

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"resextract/internal/selector"
	"resextract/internal/store"
)

type document struct {
	Version    int           `yaml:"version"`
	Times      []time.Time   `yaml:"times"`
	Nodes      []locationDoc `yaml:"nodes"`
	Reaches    []reachDoc    `yaml:"reaches"`
	Catchments []locationDoc `yaml:"catchments"`
}

type locationDoc struct {
	ID    string    `yaml:"id"`
	Items []itemDoc `yaml:"items"`
}

type reachDoc struct {
	Name       string    `yaml:"name"`
	GridPoints []float64 `yaml:"grid_points"`
	Items      []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Quantity string      `yaml:"quantity"`
	Unit     string      `yaml:"unit"`
	Index    []int       `yaml:"index,omitempty"`
	Values   [][]float64 `yaml:"values"`
}

var _ store.Backend = (*Backend)(nil)

type Backend struct {
	path   string
	filter *store.Filter
	doc    *document
}

func Open(path string) *Backend {
	return &Backend{path: path}
}

func (b *Backend) SetFilter(f *store.Filter) { b.filter = f }

func (b *Backend) Close(ctx context.Context) error { return nil }

// LoadHeader returns the archive structure with no value data retained.
func (b *Backend) LoadHeader(ctx context.Context) (*store.ResultData, error) {
	doc, err := b.decode()
	if err != nil {
		return nil, err
	}
	return build(doc, nil, true), nil
}

// Load returns the archive with values for every location the filter admits.
// The whole document is decoded either way; the filter bounds what stays
// resident afterwards.
func (b *Backend) Load(ctx context.Context) (*store.ResultData, error) {
	doc, err := b.decode()
	if err != nil {
		return nil, err
	}
	return build(doc, b.filter, false), nil
}

func (b *Backend) decode() (*document, error) {
	if b.doc != nil {
		return b.doc, nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}

	if err := validate(&doc); err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}

	b.doc = &doc
	return b.doc, nil
}

func validate(doc *document) error {
	if doc.Version != 1 {
		return fmt.Errorf("unsupported version: %d", doc.Version)
	}
	if len(doc.Times) == 0 {
		return fmt.Errorf("time axis is required")
	}

	for _, n := range doc.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node id is required")
		}
		if err := validateItems("node", n.ID, n.Items, 1, len(doc.Times)); err != nil {
			return err
		}
	}
	for _, r := range doc.Reaches {
		if r.Name == "" {
			return fmt.Errorf("reach name is required")
		}
		if len(r.GridPoints) == 0 {
			return fmt.Errorf("reach %q has no grid points", r.Name)
		}
		for _, item := range r.Items {
			elements := len(item.Index)
			if elements == 0 {
				elements = len(r.GridPoints)
			}
			for _, gp := range item.Index {
				if gp < 0 || gp >= len(r.GridPoints) {
					return fmt.Errorf("reach %q item %q: grid point index %d out of range", r.Name, item.Quantity, gp)
				}
			}
			if err := validateItems("reach", r.Name, []itemDoc{item}, elements, len(doc.Times)); err != nil {
				return err
			}
		}
	}
	for _, c := range doc.Catchments {
		if c.ID == "" {
			return fmt.Errorf("catchment id is required")
		}
		if err := validateItems("catchment", c.ID, c.Items, 1, len(doc.Times)); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(kind, id string, items []itemDoc, elements, timeSteps int) error {
	for _, item := range items {
		if item.Quantity == "" {
			return fmt.Errorf("%s %q: item quantity is required", kind, id)
		}
		if len(item.Values) == 0 {
			continue
		}
		if len(item.Values) != timeSteps {
			return fmt.Errorf("%s %q item %q: %d value rows for %d time steps",
				kind, id, item.Quantity, len(item.Values), timeSteps)
		}
		for t, row := range item.Values {
			if len(row) != elements {
				return fmt.Errorf("%s %q item %q: row %d has %d values, want %d",
					kind, id, item.Quantity, t, len(row), elements)
			}
		}
	}
	return nil
}

func build(doc *document, filter *store.Filter, headerOnly bool) *store.ResultData {
	rd := &store.ResultData{Times: doc.Times}

	for _, n := range doc.Nodes {
		keep := !headerOnly && filter.Admits(selector.Node, n.ID)
		rd.Nodes = append(rd.Nodes, &store.Node{ID: n.ID, Items: buildItems(n.Items, 0, keep)})
	}
	for _, r := range doc.Reaches {
		keep := !headerOnly && filter.Admits(selector.Reach, r.Name)
		gridPoints := make([]store.GridPoint, len(r.GridPoints))
		for i, chainage := range r.GridPoints {
			gridPoints[i] = store.GridPoint{Chainage: chainage}
		}
		rd.Reaches = append(rd.Reaches, &store.Reach{
			Name:       r.Name,
			GridPoints: gridPoints,
			Items:      buildItems(r.Items, len(gridPoints), keep),
		})
	}
	for _, c := range doc.Catchments {
		keep := !headerOnly && filter.Admits(selector.Catchment, c.ID)
		rd.Catchments = append(rd.Catchments, &store.Catchment{ID: c.ID, Items: buildItems(c.Items, 0, keep)})
	}
	return rd
}

func buildItems(items []itemDoc, gridPoints int, keepValues bool) []*store.DataItem {
	built := make([]*store.DataItem, 0, len(items))
	for _, item := range items {
		index := item.Index
		if gridPoints > 0 && index == nil {
			// Default index list: one element per grid point.
			index = make([]int, gridPoints)
			for i := range index {
				index[i] = i
			}
		}
		values := item.Values
		if !keepValues {
			values = nil
		}
		built = append(built, store.NewDataItem(
			store.Quantity{ID: item.Quantity, Unit: item.Unit}, index, values))
	}
	return built
}
