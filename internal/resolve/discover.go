package resolve

import (
	"fmt"
	"io"

	"resextract/internal/selector"
	"resextract/internal/store"
)

// Discover runs one discovery request against header data and prints the
// listing. It is terminal: the caller stops after the first discovery.
func Discover(w io.Writer, data *store.ResultData, d *selector.Discovery) {
	switch d.Kind {
	case selector.ListLocations:
		PrintLocations(w, data, d.Location)
	case selector.ListQuantities:
		printQuantitiesAt(w, data, d.Location, d.LocationID)
	}
}

// PrintLocations lists every location of one type. Reaches include their
// chainage range so a follow-up query can pin a sensible chainage.
func PrintLocations(w io.Writer, data *store.ResultData, loc selector.LocationType) {
	switch loc {
	case selector.Reach:
		for _, reach := range data.Reaches {
			lo, hi := reach.ChainageRange()
			fmt.Fprintf(w, "%-30s (%9.2f - %9.2f)\n", fmt.Sprintf("'%s'", reach.Name), lo, hi)
		}
	case selector.Node:
		for _, node := range data.Nodes {
			fmt.Fprintf(w, "'%s'\n", node.ID)
		}
	case selector.Catchment:
		for _, catchment := range data.Catchments {
			fmt.Fprintf(w, "'%s'\n", catchment.ID)
		}
	}
}

// PrintAllQuantities lists every distinct quantity id in the archive.
func PrintAllQuantities(w io.Writer, data *store.ResultData) {
	for _, q := range data.Quantities() {
		fmt.Fprintf(w, "'%s'\n", q.ID)
	}
}

func printQuantitiesAt(w io.Writer, data *store.ResultData, loc selector.LocationType, id string) {
	var items []*store.DataItem
	switch loc {
	case selector.Node:
		node := data.FindNode(id)
		if node == nil {
			fmt.Fprintf(w, "Could not find node '%s'\n", id)
			return
		}
		items = node.Items
	case selector.Catchment:
		catchment := data.FindCatchment(id)
		if catchment == nil {
			fmt.Fprintf(w, "Could not find catchment '%s'\n", id)
			return
		}
		items = catchment.Items
	case selector.Reach:
		reaches := data.FindReaches(id)
		if len(reaches) == 0 {
			fmt.Fprintf(w, "Could not find reach '%s'\n", id)
			return
		}
		items = reaches[0].Items
	}
	printQuantities(w, items)
}
