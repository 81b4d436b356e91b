package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resextract/internal/export"
	"resextract/internal/resolve"
	"resextract/internal/selector"
)

const extractLong = `Extracts data from network result files.

Selectors name what to extract:
    node:WaterLevel:116
        Water level from node 116
    reach:Discharge:113l1
        Discharge from all grid points of reach 113l1
    reach:WaterLevel:102l1:123
        Water level from reach 102l1, grid point closest to chainage 123
    catchment:TotalRunoff:Catchment_2
        Total runoff from catchment Catchment_2

The character after the location keyword is the field delimiter, so ids may
contain ':' when another delimiter is chosen: node?WaterLevel?weird:id

The output file extension selects the format:
    txt  : fixed-width text
    csv  : semicolon-separated values
    dfs0 : binary time-series container
Any other name writes all three formats with substituted extensions.

To list available locations, give only the keyword:
    resextract DemoBase.yaml out.txt reach

To list the quantities at a location, use '-' as the quantity:
    resextract DemoBase.yaml out.txt reach:-:VIDAA-NED

With no selectors at all, every quantity in the archive is listed.

Result archives can be YAML files, sqlite databases (path or sqlite:// DSN),
or postgres:// connection strings.`

func extractCmd() *cobra.Command {
	var stride int
	cmd := &cobra.Command{
		Use:   "resextract <resultFile> <outputFile> [selector]...",
		Short: "Extract time series from network result archives",
		Long:  extractLong,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return cmd.Help()
			}
			return runExtract(os.Stdout, args[0], args[1], args[2:], stride)
		},
	}
	cmd.Flags().IntVar(&stride, "stride", 1, "Export every Nth time step")
	return cmd
}

func runExtract(out io.Writer, resultPath, outputPath string, rawSelectors []string, stride int) error {
	ctx := context.Background()

	backend, err := openBackend(ctx, resultPath)
	if err != nil {
		return err
	}
	defer backend.Close(ctx)

	// Just the file pair: list every quantity the archive knows.
	if len(rawSelectors) == 0 {
		header, err := backend.LoadHeader(ctx)
		if err != nil {
			return err
		}
		resolve.PrintAllQuantities(out, header)
		return nil
	}

	// Arguments are handled strictly in order: the first discovery prints its
	// listing and ends the run before any later argument is even parsed.
	selectors := make([]selector.Selector, 0, len(rawSelectors))
	for i, arg := range rawSelectors {
		sel, err := selector.Parse(arg)
		if err != nil {
			return fmt.Errorf("could not handle argument %d, %q: %w", i+1, arg, err)
		}
		if sel.Discovery != nil {
			header, err := backend.LoadHeader(ctx)
			if err != nil {
				return err
			}
			resolve.Discover(out, header, sel.Discovery)
			return nil
		}
		selectors = append(selectors, sel)
	}

	backend.SetFilter(resolve.BuildFilter(selectors))
	data, err := backend.Load(ctx)
	if err != nil {
		return err
	}

	entries := resolve.New(data, out).ResolveAll(selectors)
	return export.Export(outputPath, data, entries, stride)
}
