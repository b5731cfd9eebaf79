package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"intervals-coach/internal/auth"
	"intervals-coach/internal/config"
	"intervals-coach/internal/intervals"
	"intervals-coach/internal/service"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// Command annotations. noConfig commands run without loading the config,
// noValidate commands load it but accept it incomplete.
const (
	noConfig   = "no-config"
	noValidate = "no-validate"
)

var (
	cfg    *config.Config
	logger *log.Logger

	athleteFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:     "intervals-coach",
	Short:   "Training readiness analytics for intervals.icu",
	Version: version,
	Long: `intervals-coach turns your intervals.icu activities, wellness and
calendar into two coaching documents:

  latest    the last 7 days of training with readiness metrics and alerts
  history   up to three years of fitness, load and phase trends

QUICK START:

  $ intervals-coach config init          # write ~/.intervals-coach/config.json
  $ intervals-coach snapshot             # readiness report for today
  $ intervals-coach history --lookback 365
  $ intervals-coach tui                  # interactive dashboard

AUTHENTICATION:

  Put your athlete ID and API key (Settings > Developer on intervals.icu) in
  the config file or in INTERVALS_ATHLETE_ID and INTERVALS_API_KEY. To use
  OAuth instead, add client_id and client_secret and run 'intervals-coach login'.

MCP INTEGRATION:

  Run 'intervals-coach mcp' to serve the documents to an MCP client over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[noConfig] != "" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			path, cerr := config.CreateExample()
			if cerr != nil {
				return fmt.Errorf("creating example config: %w", cerr)
			}
			return fmt.Errorf("no config found, an example was written to %s: add your intervals.icu athlete ID and API key", path)
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if athleteFlag != "" {
			cfg.Intervals.AthleteID = athleteFlag
		}
		if logLevelFlag != "" {
			cfg.Log.Level = logLevelFlag
		}
		logger = newLogger(cfg)

		if cmd.Annotations[noValidate] != "" {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			path, _ := config.Path()
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&athleteFlag, "athlete", "a", "", "intervals.icu athlete ID (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(c *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           c.LoggerLevel(),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "intervals-coach",
	})
}

// newClient builds the intervals.icu client, preferring OAuth when a token
// is stored. Refreshed tokens are written back to the config file.
func newClient() *intervals.Client {
	opts := []intervals.ClientOption{intervals.WithLogger(logger)}
	if cfg.Intervals.BaseURL != "" {
		opts = append(opts, intervals.WithBaseURL(cfg.Intervals.BaseURL))
	}

	if cfg.HasOAuth() {
		oauthCfg := auth.NewOAuthConfig(auth.Config{
			ClientID:     cfg.Intervals.ClientID,
			ClientSecret: cfg.Intervals.ClientSecret,
			RedirectURL:  auth.RedirectURL,
		})
		ts := auth.NewTokenSource(oauthCfg, auth.TokenFromConfig(cfg.Intervals), func(tok *oauth2.Token) error {
			auth.StoreToken(cfg, tok)
			return config.Save(cfg)
		})
		opts = append(opts, intervals.WithTokenSource(ts))
	}

	return intervals.NewClient(cfg.Intervals.APIKey, opts...)
}

func serviceOptions() []service.Option {
	return []service.Option{
		service.WithLogger(logger),
		service.WithStreams(cfg.Analysis.FetchStreams),
	}
}

// orDefault returns v, or def when v is not set
func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
