package main

import (
	"os"

	"github.com/spf13/cobra"

	"resextract/internal/config"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <jobFile>",
		Short: "Run an extraction job described by a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := config.LoadJob(args[0])
			if err != nil {
				return err
			}
			return runExtract(os.Stdout, job.Result, job.Output, job.Extract, job.Stride)
		},
	}
}
