package export

import (
	"bufio"
	"fmt"
	"os"

	"resextract/internal/resolve"
	"resextract/internal/store"
)

// writeTable renders the text and CSV formats. The two differ only in their
// format specifiers: fixed-width columns for text, ';'-terminated fields for
// CSV, mirroring each other row for row.
func writeTable(path string, data *store.ResultData, entries []resolve.Entry, stride int, csv bool) error {
	timeFormat := "%-20s"
	headFormat := "%15s"
	chainage := func(c float64) string { return fmt.Sprintf("%15.2f", c) }
	value := func(v float64) string { return fmt.Sprintf("%15.6f", v) }
	if csv {
		timeFormat = "%s;"
		headFormat = "%s;"
		chainage = func(c float64) string { return fmt.Sprintf("%.2f;", c) }
		value = func(v float64) string { return fmt.Sprintf("%g;", v) }
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	w := bufio.NewWriter(f)

	if csv {
		fmt.Fprintf(w, "sep=;\n")
	}

	// Four header rows: location kind, quantity, name, chainage.
	fmt.Fprintf(w, timeFormat, "Type")
	for _, e := range entries {
		fmt.Fprintf(w, headFormat, kindLabel(e.Kind))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, timeFormat, "Quantity")
	for _, e := range entries {
		fmt.Fprintf(w, headFormat, e.Item.Quantity.ID)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, timeFormat, "Name")
	for _, e := range entries {
		fmt.Fprintf(w, headFormat, e.Location)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, timeFormat, "Chainage")
	for _, e := range entries {
		if e.HasChainage {
			fmt.Fprint(w, chainage(e.Chainage))
		} else {
			fmt.Fprintf(w, headFormat, "")
		}
	}
	fmt.Fprintln(w)

	// One row per exported time step: timestamp, then one value per entry.
	for t, stamp := range data.Times {
		if t%stride != 0 {
			continue
		}
		fmt.Fprintf(w, timeFormat, stamp.Format("2006-01-02 15:04:05"))
		for _, e := range entries {
			fmt.Fprint(w, value(e.Item.Value(t, e.Element)))
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	return f.Close()
}
