package selector

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("node query", func(t *testing.T) {
		sel, err := Parse("node:WaterLevel:116")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q := sel.Query
		if q == nil {
			t.Fatalf("expected query, got %#v", sel)
		}
		if q.Location != Node || q.QuantityID != "WaterLevel" || q.LocationID != "116" {
			t.Fatalf("unexpected query: %#v", q)
		}
		if !q.AllChainages {
			t.Fatalf("expected all-chainages sentinel")
		}
	})

	t.Run("reach query with chainage", func(t *testing.T) {
		sel, err := Parse("reach:WaterLevel:102l1:123.5")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q := sel.Query
		if q == nil || q.Location != Reach {
			t.Fatalf("expected reach query, got %#v", sel)
		}
		if q.AllChainages {
			t.Fatalf("expected pinned chainage")
		}
		if q.Chainage != 123.5 {
			t.Fatalf("expected chainage 123.5, got %v", q.Chainage)
		}
	})

	t.Run("reach query all grid points", func(t *testing.T) {
		sel, err := Parse("reach:Discharge:113l1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sel.Query == nil || !sel.Query.AllChainages {
			t.Fatalf("expected all-chainages query, got %#v", sel)
		}
	})

	t.Run("delimiter inferred from first character", func(t *testing.T) {
		sel, err := Parse("node?WaterLevel?weird:id")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q := sel.Query
		if q == nil {
			t.Fatalf("expected query, got %#v", sel)
		}
		if q.QuantityID != "WaterLevel" || q.LocationID != "weird:id" {
			t.Fatalf("unexpected fields: %#v", q)
		}
	})

	t.Run("non-numeric chainage rejoins location id", func(t *testing.T) {
		sel, err := Parse("reach:Discharge:link:12b")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q := sel.Query
		if q == nil {
			t.Fatalf("expected query, got %#v", sel)
		}
		if q.LocationID != "link:12b" {
			t.Fatalf("expected rejoined id, got %q", q.LocationID)
		}
		if !q.AllChainages {
			t.Fatalf("expected all-chainages after rejoin")
		}
	})

	t.Run("keyword is case-insensitive", func(t *testing.T) {
		sel, err := Parse("Reach:Q:R1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sel.Query == nil || sel.Query.Location != Reach {
			t.Fatalf("unexpected selector: %#v", sel)
		}
	})

	t.Run("bare keyword lists locations", func(t *testing.T) {
		for _, arg := range []string{"reach", "node", "catchment", "reach:"} {
			sel, err := Parse(arg)
			if err != nil {
				t.Fatalf("%q: expected no error, got %v", arg, err)
			}
			d := sel.Discovery
			if d == nil || d.Kind != ListLocations {
				t.Fatalf("%q: expected location listing, got %#v", arg, sel)
			}
		}
	})

	t.Run("wildcard location lists locations", func(t *testing.T) {
		sel, err := Parse("reach:WaterLevel:-")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		d := sel.Discovery
		if d == nil || d.Kind != ListLocations || d.Location != Reach {
			t.Fatalf("expected reach listing, got %#v", sel)
		}
	})

	t.Run("wildcard quantity lists quantities at location", func(t *testing.T) {
		sel, err := Parse("node:-:N1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		d := sel.Discovery
		if d == nil || d.Kind != ListQuantities {
			t.Fatalf("expected quantity listing, got %#v", sel)
		}
		if d.Location != Node || d.LocationID != "N1" {
			t.Fatalf("unexpected discovery: %#v", d)
		}
	})

	t.Run("unknown keyword", func(t *testing.T) {
		_, err := Parse("pipe:Q:ID")
		if !errors.Is(err, ErrUnknownKeyword) {
			t.Fatalf("expected ErrUnknownKeyword, got %v", err)
		}
	})

	t.Run("node with four fields", func(t *testing.T) {
		_, err := Parse("node:Q:ID:7")
		if !errors.Is(err, ErrFieldCount) {
			t.Fatalf("expected ErrFieldCount, got %v", err)
		}
	})

	t.Run("reach with five fields", func(t *testing.T) {
		_, err := Parse("reach:Q:ID:1:2")
		if !errors.Is(err, ErrFieldCount) {
			t.Fatalf("expected ErrFieldCount, got %v", err)
		}
	})
}

func TestParseAll(t *testing.T) {
	t.Run("preserves argument order", func(t *testing.T) {
		sels, err := ParseAll([]string{"node:WaterLevel:116", "reach:Discharge:113l1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sels) != 2 {
			t.Fatalf("expected 2 selectors, got %d", len(sels))
		}
		if sels[0].Query.Location != Node || sels[1].Query.Location != Reach {
			t.Fatalf("order not preserved: %#v", sels)
		}
	})

	t.Run("reports failing argument position", func(t *testing.T) {
		_, err := ParseAll([]string{"node:WaterLevel:116", "bogus"})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !errors.Is(err, ErrUnknownKeyword) {
			t.Fatalf("expected ErrUnknownKeyword, got %v", err)
		}
	})
}
