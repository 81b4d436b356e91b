package main

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"resextract/internal/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <resultFile>",
		Short: "Serve an archive over the Model Context Protocol on stdio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			backend, err := openBackend(ctx, args[0])
			if err != nil {
				return err
			}
			defer backend.Close(ctx)

			data, err := backend.Load(ctx)
			if err != nil {
				return err
			}

			server := mcp.NewServer(data, version)
			return server.Run(ctx, &sdk.StdioTransport{})
		},
	}
}
