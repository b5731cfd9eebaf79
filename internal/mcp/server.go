// Package mcp exposes the coaching documents as Model Context Protocol tools.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/service"
)

// Options holds the athlete and the default windows used when a tool call
// leaves them out
type Options struct {
	AthleteID    string
	Days         int
	ExtendedDays int
	LookbackDays int
	ZoneType     analysis.ZoneType
	Version      string
	Logger       *log.Logger
}

// Server wraps the MCP server with the document builders.
type Server struct {
	mcpServer *mcp.Server
	snapshots *service.SnapshotService
	history   *service.HistoryService
	queries   *service.QueryService
	opts      Options
	logger    *log.Logger
}

// NewServer creates a new MCP server reading from source.
func NewServer(source service.Source, opts Options, svcOpts ...service.Option) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.ZoneType == "" {
		opts.ZoneType = analysis.ZoneTypePower
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	svcOpts = append(svcOpts, service.WithLogger(logger))

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{
				Name:    "intervals-coach",
				Version: opts.Version,
			},
			nil,
		),
		snapshots: service.NewSnapshotService(source, svcOpts...),
		history:   service.NewHistoryService(source, svcOpts...),
		queries:   service.NewQueryService(source, svcOpts...),
		opts:      opts,
		logger:    logger,
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", "athlete", s.opts.AthleteID)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
