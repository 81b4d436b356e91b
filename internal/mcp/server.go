// Package mcp exposes the archive over the Model Context Protocol, so agent
// tooling can browse locations and pull series without shelling out.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"resextract/internal/store"
)

type Server struct {
	data *store.ResultData
	mcp  *sdk.Server
}

// NewServer wraps a fully loaded archive. The serve command loads the archive
// unfiltered up front; every tool call runs against the same immutable data.
func NewServer(data *store.ResultData, version string) *Server {
	s := &Server{
		data: data,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "resextract",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
