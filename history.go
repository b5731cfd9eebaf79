package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intervals-coach/internal/report"
	"intervals-coach/internal/service"
)

var (
	historyLookback int
	historyJSON     bool
	historyChart    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Build the long-range training history",
	Long: `Build the history document: daily entries for the last 90 days, weekly
entries for 180 days, monthly entries for up to three years, plus the FTP
timeline, weight progression, data gaps and training phase markers.

EXAMPLES:

  intervals-coach history                  # summary with a fitness chart
  intervals-coach history --lookback 365   # only the last year
  intervals-coach history --json > history.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lookback := orDefault(historyLookback, cfg.Analysis.LookbackDays)

		svc := service.NewHistoryService(newClient(), serviceOptions()...)
		doc, err := svc.BuildHistory(cmd.Context(), cfg.Intervals.AthleteID, lookback)
		if err != nil {
			return fmt.Errorf("failed to build history: %w", err)
		}

		if historyJSON {
			return report.JSON(cmd.OutOrStdout(), doc)
		}
		return report.History(cmd.OutOrStdout(), doc, historyChart)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLookback, "lookback", "l", 0, "days of history (default from config)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the document as JSON")
	historyCmd.Flags().BoolVar(&historyChart, "chart", true, "draw the CTL/TSB chart")
	rootCmd.AddCommand(historyCmd)
}
