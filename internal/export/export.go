// Package export renders resolved entries over the archive's time axis into
// fixed-width text, CSV, or a dfs0 binary container. The output path's
// extension picks the format; anything else means all three.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"resextract/internal/resolve"
	"resextract/internal/selector"
	"resextract/internal/store"
)

type Format int

const (
	Text Format = iota
	CSV
	DFS0
	All
)

// DetectFormat maps an output path to its format. Unrecognized extensions or
// a bare marker (e.g. a trailing '-') select every format at once.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return Text
	case ".csv":
		return CSV
	case ".dfs0":
		return DFS0
	default:
		return All
	}
}

// Export writes the entries to path. Stride decimates the time axis: a time
// step is exported iff its zero-based index is a multiple of stride. The
// decimation is identical across formats.
func Export(path string, data *store.ResultData, entries []resolve.Entry, stride int) error {
	if stride < 1 {
		return fmt.Errorf("time step stride must be at least 1, got %d", stride)
	}

	switch DetectFormat(path) {
	case Text:
		return writeTable(path, data, entries, stride, false)
	case CSV:
		return writeTable(path, data, entries, stride, true)
	case DFS0:
		return writeDFS0(path, data, entries, stride)
	default:
		base := trimMarker(path)
		for _, ext := range []string{".txt", ".csv", ".dfs0"} {
			if err := Export(base+ext, data, entries, stride); err != nil {
				return err
			}
		}
		return nil
	}
}

// trimMarker strips the format marker so sibling filenames can substitute
// concrete extensions.
func trimMarker(path string) string {
	if strings.HasSuffix(path, "-") {
		return strings.TrimSuffix(path, "-")
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// kindLabel is the header-row label for an entry's location type.
func kindLabel(t selector.LocationType) string {
	switch t {
	case selector.Node:
		return "Node"
	case selector.Reach:
		return "Reach"
	case selector.Catchment:
		return "Catchment"
	default:
		return "-"
	}
}
