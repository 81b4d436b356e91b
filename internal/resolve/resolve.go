// Package resolve maps parsed queries onto the loaded result data. A miss at
// any level is a printed diagnostic and an empty result, never an error; the
// caller decides whether an empty batch is worth exporting.
package resolve

import (
	"fmt"
	"io"
	"math"
	"strings"

	"resextract/internal/selector"
	"resextract/internal/store"
)

// Entry is one resolved (data item, element) pair, together with what the
// exporters need to label it.
type Entry struct {
	Item     *store.DataItem
	Element  int
	Kind     selector.LocationType
	Location string

	// Chainage is the grid point chainage of the element; reach entries only.
	Chainage    float64
	HasChainage bool
}

// Resolver resolves queries against one loaded archive, writing diagnostics
// for misses to out.
type Resolver struct {
	data *store.ResultData
	out  io.Writer
}

func New(data *store.ResultData, out io.Writer) *Resolver {
	return &Resolver{data: data, out: out}
}

// Resolve returns the entries matching the query, in archive order, ascending
// element index. Not-found conditions yield an empty slice and a diagnostic.
func (r *Resolver) Resolve(q *selector.Query) []Entry {
	switch q.Location {
	case selector.Node:
		node := r.data.FindNode(q.LocationID)
		if node == nil {
			fmt.Fprintf(r.out, "Could not find node '%s'\n", q.LocationID)
			return nil
		}
		return r.singleElement(node.Items, q, selector.Node)

	case selector.Catchment:
		catchment := r.data.FindCatchment(q.LocationID)
		if catchment == nil {
			fmt.Fprintf(r.out, "Could not find catchment '%s'\n", q.LocationID)
			return nil
		}
		return r.singleElement(catchment.Items, q, selector.Catchment)

	case selector.Reach:
		return r.resolveReach(q)

	default:
		return nil
	}
}

func (r *Resolver) singleElement(items []*store.DataItem, q *selector.Query, kind selector.LocationType) []Entry {
	item := findQuantity(items, q.QuantityID)
	if item == nil {
		fmt.Fprintf(r.out, "Could not find quantity '%s' in %s '%s'. Available quantities:\n",
			q.QuantityID, kind, q.LocationID)
		printQuantities(r.out, items)
		return nil
	}
	return []Entry{{Item: item, Element: 0, Kind: kind, Location: q.LocationID}}
}

func (r *Resolver) resolveReach(q *selector.Query) []Entry {
	reaches := r.data.FindReaches(q.LocationID)
	if len(reaches) == 0 {
		fmt.Fprintf(r.out, "Could not find reach '%s'\n", q.LocationID)
		return nil
	}

	var entries []Entry
	if q.AllChainages {
		// Every element of every matching reach carrying the quantity.
		for _, reach := range reaches {
			item := findQuantity(reach.Items, q.QuantityID)
			if item == nil {
				continue
			}
			for e := 0; e < item.Elements(); e++ {
				entries = append(entries, Entry{
					Item:        item,
					Element:     e,
					Kind:        selector.Reach,
					Location:    reach.Name,
					Chainage:    reach.GridPoints[item.GridPointIndex(e)].Chainage,
					HasChainage: true,
				})
			}
		}
	} else {
		// Grid point closest to the wanted chainage across all matching
		// reaches. Exact distance ties keep the first one encountered.
		minDist := math.Inf(1)
		var best *Entry
		for _, reach := range reaches {
			item := findQuantity(reach.Items, q.QuantityID)
			if item == nil {
				continue
			}
			for e := 0; e < item.Elements(); e++ {
				chainage := reach.GridPoints[item.GridPointIndex(e)].Chainage
				dist := math.Abs(chainage - q.Chainage)
				if dist < minDist {
					minDist = dist
					best = &Entry{
						Item:        item,
						Element:     e,
						Kind:        selector.Reach,
						Location:    reach.Name,
						Chainage:    chainage,
						HasChainage: true,
					}
				}
			}
		}
		if best != nil {
			entries = append(entries, *best)
		}
	}

	if len(entries) == 0 {
		fmt.Fprintf(r.out, "Could not find quantity '%s' on reach '%s'. Available quantities:\n",
			q.QuantityID, q.LocationID)
		printQuantities(r.out, reaches[0].Items)
	}
	return entries
}

// ResolveAll resolves every query selector in order, concatenating entries.
// Discovery selectors are skipped; they never reach the export path.
func (r *Resolver) ResolveAll(selectors []selector.Selector) []Entry {
	var entries []Entry
	for _, sel := range selectors {
		if sel.Query == nil {
			continue
		}
		entries = append(entries, r.Resolve(sel.Query)...)
	}
	return entries
}

func findQuantity(items []*store.DataItem, quantityID string) *store.DataItem {
	for _, item := range items {
		if strings.EqualFold(item.Quantity.ID, quantityID) {
			return item
		}
	}
	return nil
}

func printQuantities(w io.Writer, items []*store.DataItem) {
	for _, item := range items {
		fmt.Fprintf(w, "'%s'\n", item.Quantity.ID)
	}
}

// BuildFilter registers every distinct location the query selectors touch, so
// the backend can skip paging in everything else. Discovery selectors add
// nothing; they run against header data.
func BuildFilter(selectors []selector.Selector) *store.Filter {
	filter := store.NewFilter()
	for _, sel := range selectors {
		if sel.Query == nil {
			continue
		}
		filter.Add(sel.Query.Location, sel.Query.LocationID)
	}
	return filter
}
