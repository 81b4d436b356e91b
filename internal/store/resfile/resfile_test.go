package resfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resextract/internal/selector"
	"resextract/internal/store"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	backend := Open(filepath.Join("testdata", "demo.yaml"))

	rd, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rd.Times) != 3 {
		t.Fatalf("expected 3 time steps, got %d", len(rd.Times))
	}
	if got := rd.StartTime().Format("2006-01-02 15:04:05"); got != "2020-01-01 00:00:00" {
		t.Fatalf("unexpected start time: %s", got)
	}

	node := rd.FindNode("116")
	if node == nil {
		t.Fatalf("expected node 116")
	}
	if len(node.Items) != 1 || node.Items[0].Quantity.ID != "WaterLevel" {
		t.Fatalf("unexpected node items: %#v", node.Items)
	}
	if got := node.Items[0].Value(2, 0); got != 1.2 {
		t.Fatalf("expected 1.2, got %v", got)
	}

	reaches := rd.FindReaches("113l1")
	if len(reaches) != 1 {
		t.Fatalf("expected 1 reach, got %d", len(reaches))
	}
	reach := reaches[0]
	if len(reach.GridPoints) != 3 {
		t.Fatalf("expected 3 grid points, got %d", len(reach.GridPoints))
	}
	lo, hi := reach.ChainageRange()
	if lo != 0 || hi != 100 {
		t.Fatalf("unexpected chainage range: %v - %v", lo, hi)
	}

	// Default index list covers every grid point.
	discharge := reach.Items[0]
	if discharge.Elements() != 3 {
		t.Fatalf("expected 3 elements, got %d", discharge.Elements())
	}
	if discharge.GridPointIndex(2) != 2 {
		t.Fatalf("unexpected grid point index")
	}

	// Explicit index list maps elements onto a subset of grid points.
	level := reach.Items[1]
	if level.Elements() != 2 {
		t.Fatalf("expected 2 elements, got %d", level.Elements())
	}
	if level.GridPointIndex(1) != 2 {
		t.Fatalf("expected element 1 at grid point 2, got %d", level.GridPointIndex(1))
	}
	if got := level.Value(1, 1); got != 2.3 {
		t.Fatalf("expected 2.3, got %v", got)
	}

	catchment := rd.FindCatchment("Catchment_2")
	if catchment == nil {
		t.Fatalf("expected catchment")
	}
	if got := catchment.Items[0].Value(0, 0); got != 5.0 {
		t.Fatalf("expected 5.0, got %v", got)
	}
}

func TestLoadHeader(t *testing.T) {
	ctx := context.Background()
	backend := Open(filepath.Join("testdata", "demo.yaml"))

	rd, err := backend.LoadHeader(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	node := rd.FindNode("116")
	if node == nil {
		t.Fatalf("expected node 116")
	}
	if node.Items[0].HasValues() {
		t.Fatalf("expected header-only item without values")
	}
	if node.Items[0].Elements() != 1 {
		t.Fatalf("expected single implicit element")
	}

	quantities := rd.Quantities()
	ids := make([]string, len(quantities))
	for i, q := range quantities {
		ids[i] = q.ID
	}
	want := []string{"WaterLevel", "Discharge", "TotalRunoff"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestLoadWithFilter(t *testing.T) {
	ctx := context.Background()
	backend := Open(filepath.Join("testdata", "demo.yaml"))

	filter := store.NewFilter()
	filter.Add(selector.Node, "116")
	backend.SetFilter(filter)

	rd, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !rd.FindNode("116").Items[0].HasValues() {
		t.Fatalf("expected filtered-in node to keep values")
	}
	if rd.FindReaches("113l1")[0].Items[0].HasValues() {
		t.Fatalf("expected filtered-out reach to drop values")
	}
	if rd.FindCatchment("Catchment_2").Items[0].HasValues() {
		t.Fatalf("expected filtered-out catchment to drop values")
	}
}

func TestValidate(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		return path
	}

	t.Run("unsupported version", func(t *testing.T) {
		path := write(t, "version: 2\ntimes: [2020-01-01T00:00:00Z]\n")
		_, err := Open(path).Load(context.Background())
		if err == nil || !strings.Contains(err.Error(), "unsupported version") {
			t.Fatalf("expected version error, got %v", err)
		}
	})

	t.Run("missing time axis", func(t *testing.T) {
		path := write(t, "version: 1\n")
		_, err := Open(path).Load(context.Background())
		if err == nil || !strings.Contains(err.Error(), "time axis") {
			t.Fatalf("expected time axis error, got %v", err)
		}
	})

	t.Run("value row count mismatch", func(t *testing.T) {
		path := write(t, `version: 1
times: [2020-01-01T00:00:00Z, 2020-01-01T01:00:00Z]
nodes:
  - id: N1
    items:
      - quantity: WaterLevel
        values:
          - [1.0]
`)
		_, err := Open(path).Load(context.Background())
		if err == nil || !strings.Contains(err.Error(), "value rows") {
			t.Fatalf("expected row count error, got %v", err)
		}
	})

	t.Run("grid point index out of range", func(t *testing.T) {
		path := write(t, `version: 1
times: [2020-01-01T00:00:00Z]
reaches:
  - name: R1
    grid_points: [0, 50]
    items:
      - quantity: Discharge
        index: [0, 5]
        values:
          - [1.0, 2.0]
`)
		_, err := Open(path).Load(context.Background())
		if err == nil || !strings.Contains(err.Error(), "out of range") {
			t.Fatalf("expected index error, got %v", err)
		}
	})
}
