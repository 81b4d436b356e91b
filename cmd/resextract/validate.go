package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resextract/internal/config"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <jobFile>",
		Short: "Validate a job file without touching any archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := config.LoadJob(args[0])
			if err != nil {
				fmt.Fprintf(os.Stdout, "invalid: %v\n", err)
				return fmt.Errorf("job file %s is invalid", args[0])
			}
			fmt.Fprintf(os.Stdout, "valid: %d selector(s), result %s, output %s, stride %d\n",
				len(job.Extract), job.Result, job.Output, job.Stride)
			return nil
		},
	}
}
