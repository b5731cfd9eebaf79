package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intervals-coach/internal/report"
	"intervals-coach/internal/service"
)

var durabilityJSON bool

var durabilityCmd = &cobra.Command{
	Use:   "durability <activity-id>",
	Short: "Show aerobic decoupling and efficiency for one activity",
	Long: `Fetch the power and heart rate streams of an activity and compute its
aerobic decoupling (Pw:HR drift between halves), efficiency factor and
variability index. The upstream decoupling value is used when the streams
are missing.

EXAMPLES:

  intervals-coach durability i12345678`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewQueryService(newClient(), serviceOptions()...)
		rep, err := svc.ActivityDurability(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to analyze activity %s: %w", args[0], err)
		}

		if durabilityJSON {
			return report.JSON(cmd.OutOrStdout(), rep)
		}
		return report.Durability(cmd.OutOrStdout(), rep)
	},
}

func init() {
	durabilityCmd.Flags().BoolVar(&durabilityJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(durabilityCmd)
}
