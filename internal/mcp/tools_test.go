package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"resextract/internal/store"
)

func testData() *store.ResultData {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}

	return &store.ResultData{
		Times: times,
		Nodes: []*store.Node{{
			ID: "116",
			Items: []*store.DataItem{
				store.NewDataItem(store.Quantity{ID: "WaterLevel", Unit: "m"}, nil,
					[][]float64{{1.0}, {1.5}, {2.0}}),
			},
		}},
		Reaches: []*store.Reach{{
			Name:       "113l1",
			GridPoints: []store.GridPoint{{Chainage: 0}, {Chainage: 50}},
			Items: []*store.DataItem{
				store.NewDataItem(store.Quantity{ID: "Discharge", Unit: "m^3/s"}, []int{0, 1},
					[][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}}),
			},
		}},
	}
}

func TestListLocations(t *testing.T) {
	server := NewServer(testData(), "test")

	_, out, err := server.handleListLocations(context.Background(), nil, ListLocationsInput{Type: "reach"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Locations) != 1 {
		t.Fatalf("expected 1 reach, got %d", len(out.Locations))
	}
	loc := out.Locations[0]
	if loc.Name != "113l1" || loc.ChainageEnd == nil || *loc.ChainageEnd != 50 {
		t.Fatalf("unexpected location: %#v", loc)
	}
	if loc.ChainageStart == nil || *loc.ChainageStart != 0 {
		t.Fatalf("expected chainage start 0 to be reported, got %#v", loc.ChainageStart)
	}

	_, nodes, err := server.handleListLocations(context.Background(), nil, ListLocationsInput{Type: "node"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if nodes.Locations[0].ChainageStart != nil || nodes.Locations[0].ChainageEnd != nil {
		t.Fatalf("expected no chainage range on a node: %#v", nodes.Locations[0])
	}

	_, _, err = server.handleListLocations(context.Background(), nil, ListLocationsInput{Type: "pipe"})
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestListQuantities(t *testing.T) {
	server := NewServer(testData(), "test")

	t.Run("archive-wide", func(t *testing.T) {
		_, out, err := server.handleListQuantities(context.Background(), nil, ListQuantitiesInput{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Quantities) != 2 {
			t.Fatalf("expected 2 quantities, got %d", len(out.Quantities))
		}
	})

	t.Run("at a node", func(t *testing.T) {
		_, out, err := server.handleListQuantities(context.Background(), nil, ListQuantitiesInput{Type: "node", ID: "116"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Quantities) != 1 || out.Quantities[0].ID != "WaterLevel" {
			t.Fatalf("unexpected quantities: %#v", out.Quantities)
		}
	})

	t.Run("missing location", func(t *testing.T) {
		_, _, err := server.handleListQuantities(context.Background(), nil, ListQuantitiesInput{Type: "node", ID: "999"})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestExtractSeries(t *testing.T) {
	server := NewServer(testData(), "test")

	t.Run("two selectors", func(t *testing.T) {
		_, out, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"node:WaterLevel:116", "reach:Discharge:113l1:40"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Channels) != 2 {
			t.Fatalf("expected 2 channels, got %d", len(out.Channels))
		}
		if out.Channels[0].Chainage != nil {
			t.Fatalf("expected no chainage on the node channel, got %v", *out.Channels[0].Chainage)
		}
		if out.Channels[1].Chainage == nil || *out.Channels[1].Chainage != 50 {
			t.Fatalf("expected nearest chainage 50, got %#v", out.Channels[1].Chainage)
		}
		if len(out.Times) != 3 || len(out.Values) != 3 {
			t.Fatalf("expected 3 rows, got %d/%d", len(out.Times), len(out.Values))
		}
		if out.Values[2][0] != 2.0 || out.Values[2][1] != 0.6 {
			t.Fatalf("unexpected values: %#v", out.Values[2])
		}
	})

	t.Run("grid point at chainage zero keeps its chainage", func(t *testing.T) {
		_, out, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"reach:Discharge:113l1:0"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Channels) != 1 {
			t.Fatalf("expected 1 channel, got %d", len(out.Channels))
		}
		if out.Channels[0].Chainage == nil || *out.Channels[0].Chainage != 0 {
			t.Fatalf("expected chainage 0 to be reported, got %#v", out.Channels[0].Chainage)
		}
	})

	t.Run("stride decimates rows", func(t *testing.T) {
		_, out, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"node:WaterLevel:116"},
			Stride:    2,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Values) != 2 {
			t.Fatalf("expected rows at steps 0 and 2, got %d", len(out.Values))
		}
	})

	t.Run("miss surfaces as diagnostics", func(t *testing.T) {
		_, out, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"node:WaterLevel:999"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Channels) != 0 {
			t.Fatalf("expected no channels, got %d", len(out.Channels))
		}
		if !strings.Contains(out.Diagnostics, "Could not find node '999'") {
			t.Fatalf("expected diagnostic, got %q", out.Diagnostics)
		}
	})

	t.Run("discovery selector is rejected", func(t *testing.T) {
		_, _, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"node:-:116"},
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("malformed selector is rejected", func(t *testing.T) {
		_, _, err := server.handleExtractSeries(context.Background(), nil, ExtractSeriesInput{
			Selectors: []string{"bogus"},
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}
