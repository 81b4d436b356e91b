package store

import (
	"context"

	"resextract/internal/selector"
)

// Backend opens one result archive. LoadHeader returns the structure without
// value data, for listings. SetFilter, applied before Load, restricts which
// locations' values the backend pages into memory; it is an optimization, not
// a correctness requirement. Load returns the archive with values for every
// location the filter admits.
type Backend interface {
	LoadHeader(ctx context.Context) (*ResultData, error)
	SetFilter(f *Filter)
	Load(ctx context.Context) (*ResultData, error)
	Close(ctx context.Context) error
}

// Filter names the locations whose values must be loaded. A nil or empty
// filter admits everything.
type Filter struct {
	nodes      map[string]struct{}
	reaches    map[string]struct{}
	catchments map[string]struct{}
}

func NewFilter() *Filter {
	return &Filter{
		nodes:      make(map[string]struct{}),
		reaches:    make(map[string]struct{}),
		catchments: make(map[string]struct{}),
	}
}

func (f *Filter) Add(loc selector.LocationType, id string) {
	switch loc {
	case selector.Node:
		f.nodes[id] = struct{}{}
	case selector.Reach:
		f.reaches[id] = struct{}{}
	case selector.Catchment:
		f.catchments[id] = struct{}{}
	}
}

func (f *Filter) Empty() bool {
	if f == nil {
		return true
	}
	return len(f.nodes) == 0 && len(f.reaches) == 0 && len(f.catchments) == 0
}

// Admits reports whether the location's values should be loaded.
func (f *Filter) Admits(loc selector.LocationType, id string) bool {
	if f.Empty() {
		return true
	}
	switch loc {
	case selector.Node:
		_, ok := f.nodes[id]
		return ok
	case selector.Reach:
		_, ok := f.reaches[id]
		return ok
	case selector.Catchment:
		_, ok := f.catchments[id]
		return ok
	default:
		return false
	}
}

// IDs returns the registered ids for one location type, for backends that
// push the filter into queries.
func (f *Filter) IDs(loc selector.LocationType) []string {
	var m map[string]struct{}
	switch loc {
	case selector.Node:
		m = f.nodes
	case selector.Reach:
		m = f.reaches
	case selector.Catchment:
		m = f.catchments
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}
