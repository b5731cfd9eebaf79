package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"intervals-coach/internal/config"
	"intervals-coach/internal/report"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write an example config file",
	Annotations: map[string]string{noConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateExample()
		if err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n\n", color.CyanString(path))
		fmt.Fprintln(out, "Add your athlete ID and API key from https://intervals.icu/settings")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration with secrets masked",
	Annotations: map[string]string{noValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		masked := *cfg
		masked.Intervals.APIKey = mask(masked.Intervals.APIKey)
		masked.Intervals.AccessToken = mask(masked.Intervals.AccessToken)
		masked.Intervals.RefreshToken = mask(masked.Intervals.RefreshToken)
		masked.Intervals.ClientSecret = mask(masked.Intervals.ClientSecret)
		return report.JSON(cmd.OutOrStdout(), masked)
	},
}

// mask hides all but the last four characters of a secret
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
