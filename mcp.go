package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/mcp"
	"intervals-coach/internal/metrics"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.
The server communicates via stdin/stdout; logs go to stderr.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "intervals-coach": {
        "command": "intervals-coach",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_latest_snapshot     Latest readiness snapshot document
  get_history_snapshot    Long-range history document
  get_zone_distribution   Time in zone over a date range
  get_durability_metrics  Decoupling and efficiency of one activity
  get_alerts              Only the alerts of the latest snapshot

METRICS:

  With --metrics-addr (or metrics.addr in the config) Prometheus metrics are
  served on http://<addr>/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zoneType, err := analysis.ParseZoneType(cfg.Analysis.ZoneType)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		addr := cfg.Metrics.Addr
		if mcpMetricsAddr != "" {
			addr = mcpMetricsAddr
		}
		if addr != "" {
			stop := serveMetrics(addr)
			defer stop()
		}

		server := mcp.NewServer(newClient(), mcp.Options{
			AthleteID:    cfg.Intervals.AthleteID,
			Days:         cfg.Analysis.Days,
			ExtendedDays: cfg.Analysis.ExtendedDays,
			LookbackDays: cfg.Analysis.LookbackDays,
			ZoneType:     zoneType,
			Version:      version,
			Logger:       logger,
		}, serviceOptions()...)

		return server.Serve(ctx)
	},
}

// serveMetrics exposes the Prometheus handler on addr and returns a func
// that shuts it down
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}
