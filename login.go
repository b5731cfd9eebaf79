package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"intervals-coach/internal/auth"
	"intervals-coach/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with intervals.icu using OAuth",
	Long: `Run the OAuth authorization flow in the browser and store the resulting
tokens in the config file. Requires intervals.client_id and
intervals.client_secret in the config.

The callback is received on http://localhost:8089/callback, which must be
registered as a redirect URI of your intervals.icu OAuth application.`,
	Annotations: map[string]string{noValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Intervals.ClientID == "" || cfg.Intervals.ClientSecret == "" {
			return errors.New("intervals.client_id and intervals.client_secret are required for login")
		}

		oauthCfg := auth.NewOAuthConfig(auth.Config{
			ClientID:     cfg.Intervals.ClientID,
			ClientSecret: cfg.Intervals.ClientSecret,
			RedirectURL:  auth.RedirectURL,
		})

		out := cmd.OutOrStdout()
		result, err := auth.Authenticate(cmd.Context(), oauthCfg, out)
		if err != nil {
			return fmt.Errorf("authentication: %w", err)
		}

		auth.StoreToken(cfg, result.Token)
		if result.AthleteID != "" && (cfg.Intervals.AthleteID == "" || cfg.Intervals.AthleteID == "YOUR_ATHLETE_ID") {
			cfg.Intervals.AthleteID = result.AthleteID
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving tokens: %w", err)
		}

		fmt.Fprintln(out)
		color.New(color.FgGreen).Fprintf(out, "Successfully authenticated as athlete %s\n", cfg.Intervals.AthleteID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
