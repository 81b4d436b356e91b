package dfs0

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dfs0")
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	b := NewBuilder("extract", "resextract", 1)
	b.SetStartTime(start)
	b.AddChannel("node:WaterLevel:116", "m")
	b.AddChannel("reach:Discharge:113l1:50.000", "m^3/s")

	f, err := b.Create(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.WriteRecord(0, []float32{1.5, 2.5}); err != nil {
		t.Fatalf("writing record: %v", err)
	}
	if err := f.WriteRecord(3600, []float32{1.6, 2.6}); err != nil {
		t.Fatalf("writing record: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if c.Title != "extract" || c.AppTitle != "resextract" || c.AppVersion != 1 {
		t.Fatalf("unexpected header: %#v", c)
	}
	if !c.Start.Equal(start) {
		t.Fatalf("expected start %v, got %v", start, c.Start)
	}
	if len(c.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(c.Channels))
	}
	if c.Channels[0].Name != "node:WaterLevel:116" || c.Channels[0].Unit != "m" {
		t.Fatalf("unexpected channel: %#v", c.Channels[0])
	}
	if c.Channels[1].ValueType != ValueFloat32 || c.Channels[1].DataKind != DataInstantaneous {
		t.Fatalf("unexpected channel typing: %#v", c.Channels[1])
	}
	if len(c.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(c.Records))
	}
	if c.Records[1].Elapsed != 3600 {
		t.Fatalf("expected elapsed 3600, got %v", c.Records[1].Elapsed)
	}
	if c.Records[1].Values[1] != 2.6 {
		t.Fatalf("expected 2.6, got %v", c.Records[1].Values[1])
	}
}

func TestWriteRecord_ValueCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dfs0")

	b := NewBuilder("extract", "resextract", 1)
	b.AddChannel("a", "m")

	f, err := b.Create(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer f.Close()

	if err := f.WriteRecord(0, []float32{1, 2}); !errors.Is(err, ErrValueCount) {
		t.Fatalf("expected ErrValueCount, got %v", err)
	}
}

func TestRead_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dfs0")
	if err := os.WriteFile(path, []byte("NOPE...."), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestEmptyContainer(t *testing.T) {
	// A header-only file with no channels and no records is valid.
	path := filepath.Join(t.TempDir(), "empty.dfs0")

	b := NewBuilder("extract", "resextract", 1)
	f, err := b.Create(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(c.Channels) != 0 || len(c.Records) != 0 {
		t.Fatalf("expected empty container, got %#v", c)
	}
}
