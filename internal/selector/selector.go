package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LocationType identifies which collection of the result data a selector
// addresses. The set is closed; every consumer switches exhaustively over it.
type LocationType int

const (
	Reach LocationType = iota
	Node
	Catchment
)

func (t LocationType) String() string {
	switch t {
	case Reach:
		return "reach"
	case Node:
		return "node"
	case Catchment:
		return "catchment"
	default:
		return "unknown"
	}
}

// Wildcard in the quantity or location slot switches the argument from an
// export query to a discovery request.
const Wildcard = "-"

var (
	ErrUnknownKeyword = errors.New("unknown location keyword")
	ErrFieldCount     = errors.New("wrong number of fields")
)

// Query selects one quantity at one location. It is immutable once parsed.
// AllChainages is set for reach queries that do not pin a chainage; for node
// and catchment queries it is always true and Chainage is meaningless.
type Query struct {
	Location     LocationType
	QuantityID   string
	LocationID   string
	Chainage     float64
	AllChainages bool
}

// DiscoveryKind says what a discovery request should list.
type DiscoveryKind int

const (
	// ListLocations lists every location of the requested type.
	ListLocations DiscoveryKind = iota
	// ListQuantities lists the quantities available at one location.
	ListQuantities
)

// Discovery is a request to list what the archive holds instead of exporting.
type Discovery struct {
	Kind       DiscoveryKind
	Location   LocationType
	LocationID string
}

// Selector is the parse result of one extract argument. Exactly one of Query
// and Discovery is non-nil.
type Selector struct {
	Query     *Query
	Discovery *Discovery
}

var keywords = []struct {
	word string
	typ  LocationType
}{
	{"catchment", Catchment},
	{"reach", Reach},
	{"node", Node},
}

// Parse turns one extract argument into a Selector.
//
// The argument shape is <keyword><delim><quantity><delim><location>[<delim><chainage>],
// where the delimiter is whatever character follows the keyword. This lets
// identifiers contain the conventional ':' (e.g. "node?WaterLevel?weird:id").
// Parsing is two-phase: detect the delimiter, then split on it.
func Parse(arg string) (Selector, error) {
	keyword, loc, ok := matchKeyword(arg)
	if !ok {
		return Selector{}, fmt.Errorf("%w in %q", ErrUnknownKeyword, arg)
	}

	// Bare keyword: list everything of that type.
	if len(arg) == len(keyword) {
		return discover(ListLocations, loc, ""), nil
	}

	delim := string(arg[len(keyword)])
	fields := strings.Split(arg[len(keyword)+1:], delim)

	// Field counts below include the keyword itself.
	switch n := 1 + len(fields); {
	case n <= 2:
		return discover(ListLocations, loc, ""), nil

	case n == 3:
		return selectorFrom(loc, fields[0], fields[1], 0, true), nil

	case n == 4 && loc == Reach:
		quantity, location := fields[0], fields[1]
		chainage, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			// Not a chainage: the location id itself contains the
			// delimiter, so glue the last two fields back together.
			return selectorFrom(loc, quantity, location+delim+fields[2], 0, true), nil
		}
		return selectorFrom(loc, quantity, location, chainage, false), nil

	default:
		return Selector{}, fmt.Errorf("%w: %s argument has %d fields in %q",
			ErrFieldCount, loc, n, arg)
	}
}

func matchKeyword(arg string) (string, LocationType, bool) {
	for _, kw := range keywords {
		if len(arg) >= len(kw.word) && strings.EqualFold(arg[:len(kw.word)], kw.word) {
			return arg[:len(kw.word)], kw.typ, true
		}
	}
	return "", 0, false
}

func selectorFrom(loc LocationType, quantity, location string, chainage float64, all bool) Selector {
	if location == Wildcard {
		return discover(ListLocations, loc, "")
	}
	if quantity == Wildcard {
		return discover(ListQuantities, loc, location)
	}
	return Selector{Query: &Query{
		Location:     loc,
		QuantityID:   quantity,
		LocationID:   location,
		Chainage:     chainage,
		AllChainages: all,
	}}
}

func discover(kind DiscoveryKind, loc LocationType, id string) Selector {
	return Selector{Discovery: &Discovery{Kind: kind, Location: loc, LocationID: id}}
}

// ParseAll parses every extract argument in order. The first malformed
// argument aborts with an error naming its position and text.
func ParseAll(args []string) ([]Selector, error) {
	selectors := make([]Selector, 0, len(args))
	for i, arg := range args {
		sel, err := Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("could not handle argument %d, %q: %w", i+1, arg, err)
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}
