package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"resextract/internal/resolve"
	"resextract/internal/selector"
)

type ListLocationsInput struct {
	Type string `json:"type" jsonschema:"location type: reach, node, or catchment"`
}

type ListQuantitiesInput struct {
	Type string `json:"type,omitempty" jsonschema:"location type, required when id is set"`
	ID   string `json:"id,omitempty" jsonschema:"location id; empty lists every quantity in the archive"`
}

type ExtractSeriesInput struct {
	Selectors []string `json:"selectors" jsonschema:"extract selectors, e.g. reach:Discharge:113l1"`
	Stride    int      `json:"stride,omitempty" jsonschema:"time step decimation factor, default 1"`
}

// Chainage fields are pointers so a grid point at chainage 0 is still
// reported; absent means the location has no chainage at all.
type LocationOutput struct {
	Name          string   `json:"name"`
	ChainageStart *float64 `json:"chainage_start,omitempty"`
	ChainageEnd   *float64 `json:"chainage_end,omitempty"`
}

type ListLocationsOutput struct {
	Locations []LocationOutput `json:"locations"`
}

type QuantityOutput struct {
	ID   string `json:"id"`
	Unit string `json:"unit"`
}

type ListQuantitiesOutput struct {
	Quantities []QuantityOutput `json:"quantities"`
}

type ChannelOutput struct {
	Type     string   `json:"type"`
	Quantity string   `json:"quantity"`
	Location string   `json:"location"`
	Unit     string   `json:"unit"`
	Chainage *float64 `json:"chainage,omitempty"`
}

type ExtractSeriesOutput struct {
	Channels    []ChannelOutput `json:"channels"`
	Times       []string        `json:"times"`
	Values      [][]float64     `json:"values"`
	Diagnostics string          `json:"diagnostics,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_locations",
		Description: "List the reaches, nodes, or catchments in the archive",
	}, s.handleListLocations)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_quantities",
		Description: "List quantities, archive-wide or at one location",
	}, s.handleListQuantities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "extract_series",
		Description: "Extract time series for the given selectors",
	}, s.handleExtractSeries)
}

func parseLocationType(name string) (selector.LocationType, error) {
	switch strings.ToLower(name) {
	case "reach":
		return selector.Reach, nil
	case "node":
		return selector.Node, nil
	case "catchment":
		return selector.Catchment, nil
	default:
		return 0, fmt.Errorf("unknown location type %q", name)
	}
}

func (s *Server) handleListLocations(ctx context.Context, req *sdk.CallToolRequest, input ListLocationsInput) (*sdk.CallToolResult, ListLocationsOutput, error) {
	loc, err := parseLocationType(input.Type)
	if err != nil {
		return nil, ListLocationsOutput{}, err
	}

	var out ListLocationsOutput
	switch loc {
	case selector.Reach:
		for _, reach := range s.data.Reaches {
			lo, hi := reach.ChainageRange()
			out.Locations = append(out.Locations, LocationOutput{Name: reach.Name, ChainageStart: &lo, ChainageEnd: &hi})
		}
	case selector.Node:
		for _, node := range s.data.Nodes {
			out.Locations = append(out.Locations, LocationOutput{Name: node.ID})
		}
	case selector.Catchment:
		for _, catchment := range s.data.Catchments {
			out.Locations = append(out.Locations, LocationOutput{Name: catchment.ID})
		}
	}
	return nil, out, nil
}

func (s *Server) handleListQuantities(ctx context.Context, req *sdk.CallToolRequest, input ListQuantitiesInput) (*sdk.CallToolResult, ListQuantitiesOutput, error) {
	if input.ID == "" {
		var out ListQuantitiesOutput
		for _, q := range s.data.Quantities() {
			out.Quantities = append(out.Quantities, QuantityOutput{ID: q.ID, Unit: q.Unit})
		}
		return nil, out, nil
	}

	loc, err := parseLocationType(input.Type)
	if err != nil {
		return nil, ListQuantitiesOutput{}, err
	}

	var out ListQuantitiesOutput
	switch loc {
	case selector.Node:
		node := s.data.FindNode(input.ID)
		if node == nil {
			return nil, out, fmt.Errorf("node %q not found", input.ID)
		}
		for _, item := range node.Items {
			out.Quantities = append(out.Quantities, QuantityOutput{ID: item.Quantity.ID, Unit: item.Quantity.Unit})
		}
	case selector.Catchment:
		catchment := s.data.FindCatchment(input.ID)
		if catchment == nil {
			return nil, out, fmt.Errorf("catchment %q not found", input.ID)
		}
		for _, item := range catchment.Items {
			out.Quantities = append(out.Quantities, QuantityOutput{ID: item.Quantity.ID, Unit: item.Quantity.Unit})
		}
	case selector.Reach:
		reaches := s.data.FindReaches(input.ID)
		if len(reaches) == 0 {
			return nil, out, fmt.Errorf("reach %q not found", input.ID)
		}
		for _, item := range reaches[0].Items {
			out.Quantities = append(out.Quantities, QuantityOutput{ID: item.Quantity.ID, Unit: item.Quantity.Unit})
		}
	}
	return nil, out, nil
}

func (s *Server) handleExtractSeries(ctx context.Context, req *sdk.CallToolRequest, input ExtractSeriesInput) (*sdk.CallToolResult, ExtractSeriesOutput, error) {
	if len(input.Selectors) == 0 {
		return nil, ExtractSeriesOutput{}, fmt.Errorf("selectors are required")
	}
	stride := input.Stride
	if stride == 0 {
		stride = 1
	}
	if stride < 1 {
		return nil, ExtractSeriesOutput{}, fmt.Errorf("stride must be at least 1")
	}

	selectors, err := selector.ParseAll(input.Selectors)
	if err != nil {
		return nil, ExtractSeriesOutput{}, err
	}
	for _, sel := range selectors {
		if sel.Discovery != nil {
			return nil, ExtractSeriesOutput{}, fmt.Errorf("discovery selectors are not valid here; use the list tools")
		}
	}

	var diagnostics bytes.Buffer
	entries := resolve.New(s.data, &diagnostics).ResolveAll(selectors)

	out := ExtractSeriesOutput{Diagnostics: diagnostics.String()}
	for _, e := range entries {
		ch := ChannelOutput{
			Type:     e.Kind.String(),
			Quantity: e.Item.Quantity.ID,
			Location: e.Location,
			Unit:     e.Item.Quantity.Unit,
		}
		if e.HasChainage {
			chainage := e.Chainage
			ch.Chainage = &chainage
		}
		out.Channels = append(out.Channels, ch)
	}

	for t, stamp := range s.data.Times {
		if t%stride != 0 {
			continue
		}
		out.Times = append(out.Times, stamp.Format(time.RFC3339))
		row := make([]float64, len(entries))
		for j, e := range entries {
			row[j] = e.Item.Value(t, e.Element)
		}
		out.Values = append(out.Values, row)
	}
	return nil, out, nil
}
