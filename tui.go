package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"intervals-coach/internal/config"
	"intervals-coach/internal/service"
	"intervals-coach/internal/tui"
)

var tuiSkipHistory bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long: `Open the terminal dashboard. The snapshot and history are built on start
and can be refreshed from the sync screen.

Logs are written to ~/.intervals-coach/tui.log while the dashboard runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		f, err := tea.LogToFile(filepath.Join(dir, "tui.log"), "tui")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)

		client := newClient()
		opts := serviceOptions()
		syncSvc := service.NewSyncService(
			service.NewSnapshotService(client, opts...),
			service.NewHistoryService(client, opts...),
		)
		querySvc := service.NewQueryService(client, opts...)

		req := service.SyncRequest{
			AthleteID:    cfg.Intervals.AthleteID,
			Days:         cfg.Analysis.Days,
			ExtendedDays: cfg.Analysis.ExtendedDays,
			LookbackDays: cfg.Analysis.LookbackDays,
			SkipHistory:  tuiSkipHistory,
		}

		app := tui.NewApp(syncSvc, querySvc, req)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}

		requests, throttled := client.RateLimitStatus()
		logger.Debug("tui closed", "requests", requests, "throttled", throttled)
		return nil
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiSkipHistory, "skip-history", false, "only build the snapshot")
	rootCmd.AddCommand(tuiCmd)
}
