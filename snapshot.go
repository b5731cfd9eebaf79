package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intervals-coach/internal/report"
	"intervals-coach/internal/service"
)

var (
	snapshotDays         int
	snapshotExtendedDays int
	snapshotJSON         bool
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"latest"},
	Short:   "Build the latest readiness snapshot",
	Long: `Build the latest-state snapshot: today's fitness and wellness, derived
readiness metrics, alerts, recent activities and planned workouts.

The primary window (--days) drives the short-term metrics. The extended
window (--extended-days) feeds baselines, ACWR and the phase detection.

EXAMPLES:

  intervals-coach snapshot                 # human-readable report
  intervals-coach snapshot --json          # the full document as JSON
  intervals-coach snapshot --days 14 --extended-days 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := orDefault(snapshotDays, cfg.Analysis.Days)
		extended := orDefault(snapshotExtendedDays, cfg.Analysis.ExtendedDays)

		svc := service.NewSnapshotService(newClient(), serviceOptions()...)
		doc, err := svc.BuildLatest(cmd.Context(), cfg.Intervals.AthleteID, days, extended)
		if err != nil {
			return fmt.Errorf("failed to build snapshot: %w", err)
		}

		if snapshotJSON {
			return report.JSON(cmd.OutOrStdout(), doc)
		}
		return report.Snapshot(cmd.OutOrStdout(), doc)
	},
}

func init() {
	snapshotCmd.Flags().IntVarP(&snapshotDays, "days", "d", 0, "primary window in days (default from config)")
	snapshotCmd.Flags().IntVar(&snapshotExtendedDays, "extended-days", 0, "extended window in days (default from config)")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the document as JSON")
	rootCmd.AddCommand(snapshotCmd)
}
