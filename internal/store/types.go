package store

import (
	"strings"
	"time"
)

// Quantity names a physical signal and carries its unit tag. Quantity ids
// compare case-insensitively everywhere.
type Quantity struct {
	ID   string
	Unit string
}

// GridPoint is one spatial position along a reach.
type GridPoint struct {
	Chainage float64
}

// DataItem holds one quantity's values at one location, addressable by time
// step and element. Values are constant after load; a header-only load leaves
// them empty but keeps the element count.
type DataItem struct {
	Quantity  Quantity
	IndexList []int // element position -> grid point position, reaches only

	values   [][]float64 // [timeStep][element]
	elements int
}

func NewDataItem(quantity Quantity, indexList []int, values [][]float64) *DataItem {
	elements := len(indexList)
	if elements == 0 {
		if len(values) > 0 {
			elements = len(values[0])
		} else {
			elements = 1
		}
	}
	return &DataItem{Quantity: quantity, IndexList: indexList, values: values, elements: elements}
}

// Elements is the number of addressable elements; 1 for node and catchment
// items, one per grid point entry for reach items.
func (d *DataItem) Elements() int { return d.elements }

func (d *DataItem) Value(timeStep, element int) float64 {
	return d.values[timeStep][element]
}

// HasValues reports whether value data was loaded for this item.
func (d *DataItem) HasValues() bool { return len(d.values) > 0 }

// GridPointIndex maps an element position to its grid point position.
func (d *DataItem) GridPointIndex(element int) int {
	if d.IndexList == nil {
		return element
	}
	return d.IndexList[element]
}

type Node struct {
	ID    string
	Items []*DataItem
}

type Catchment struct {
	ID    string
	Items []*DataItem
}

type Reach struct {
	Name       string
	GridPoints []GridPoint
	Items      []*DataItem
}

// ChainageRange is the chainage of the reach's first and last grid point.
func (r *Reach) ChainageRange() (float64, float64) {
	if len(r.GridPoints) == 0 {
		return 0, 0
	}
	return r.GridPoints[0].Chainage, r.GridPoints[len(r.GridPoints)-1].Chainage
}

// ResultData is a loaded result archive: the three location collections plus
// the time axis every data item is indexed against.
type ResultData struct {
	Nodes      []*Node
	Reaches    []*Reach
	Catchments []*Catchment
	Times      []time.Time
}

// StartTime anchors relative time offsets in the binary export format.
func (rd *ResultData) StartTime() time.Time {
	if len(rd.Times) == 0 {
		return time.Time{}
	}
	return rd.Times[0]
}

// FindNode returns the node with the given id, or nil. Ids match
// case-sensitively, like the archive's native identifiers.
func (rd *ResultData) FindNode(id string) *Node {
	for _, n := range rd.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (rd *ResultData) FindCatchment(id string) *Catchment {
	for _, c := range rd.Catchments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindReaches returns every reach with the given name, in archive order. A
// network can hold parallel reaches sharing one logical name.
func (rd *ResultData) FindReaches(name string) []*Reach {
	var reaches []*Reach
	for _, r := range rd.Reaches {
		if r.Name == name {
			reaches = append(reaches, r)
		}
	}
	return reaches
}

// Quantities lists every distinct quantity in the archive, first-seen order,
// distinct case-insensitively.
func (rd *ResultData) Quantities() []Quantity {
	seen := make(map[string]struct{})
	var quantities []Quantity

	add := func(items []*DataItem) {
		for _, item := range items {
			key := strings.ToLower(item.Quantity.ID)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			quantities = append(quantities, item.Quantity)
		}
	}

	for _, n := range rd.Nodes {
		add(n.Items)
	}
	for _, r := range rd.Reaches {
		add(r.Items)
	}
	for _, c := range rd.Catchments {
		add(c.Items)
	}
	return quantities
}
