package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/report"
	"intervals-coach/internal/service"
)

var (
	zonesFrom string
	zonesTo   string
	zonesDays int
	zonesType string
	zonesJSON bool
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Show the time-in-zone distribution for a date range",
	Long: `Sum the power or heart rate zone times of the activities in a date range
and show the per-zone shares, the three-zone model and the polarization index.

Without --from and --to the range is the last --days days ending today.

EXAMPLES:

  intervals-coach zones                              # last 7 days, power
  intervals-coach zones --days 28 --type hr
  intervals-coach zones --from 2026-01-01 --to 2026-01-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zoneType := cfg.Analysis.ZoneType
		if zonesType != "" {
			zoneType = zonesType
		}
		zt, err := analysis.ParseZoneType(zoneType)
		if err != nil {
			return err
		}

		svc := service.NewQueryService(newClient(), serviceOptions()...)
		r, err := svc.Range(zonesFrom, zonesTo, zonesDays)
		if err != nil {
			return err
		}

		rep, err := svc.ZoneReport(cmd.Context(), cfg.Intervals.AthleteID, r, zt)
		if err != nil {
			return fmt.Errorf("failed to build zone report: %w", err)
		}

		if zonesJSON {
			return report.JSON(cmd.OutOrStdout(), rep)
		}
		return report.Zones(cmd.OutOrStdout(), rep)
	},
}

func init() {
	zonesCmd.Flags().StringVar(&zonesFrom, "from", "", "start date (YYYY-MM-DD)")
	zonesCmd.Flags().StringVar(&zonesTo, "to", "", "end date (YYYY-MM-DD, default today)")
	zonesCmd.Flags().IntVarP(&zonesDays, "days", "d", 0, "range length when --from is not set (default 7)")
	zonesCmd.Flags().StringVarP(&zonesType, "type", "t", "", "zone model: power or hr (default from config)")
	zonesCmd.Flags().BoolVar(&zonesJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(zonesCmd)
}
