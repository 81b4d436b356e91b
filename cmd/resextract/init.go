package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const starterJob = `# resextract job file
version: 1

# Result archive: YAML file, sqlite database, or postgres:// DSN.
result: DemoBase.yaml

# Output file; the extension picks the format (txt, csv, dfs0).
output: out.csv

# Export every Nth time step.
stride: 1

# Selectors, same syntax as the command line.
extract:
  - node:WaterLevel:116
  - reach:Discharge:113l1
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <jobFile>",
		Short: "Write a starter job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(starterJob), 0o600); err != nil {
				return fmt.Errorf("writing job file: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
			return nil
		},
	}
}
