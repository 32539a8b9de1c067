// Package commands implements the fxmon command line.
package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-inflation-monitor/internal/app"
	"github.com/damon-houk/fx-inflation-monitor/internal/config"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
)

var (
	wire *app.Wire

	frankfurterURL string
	worldBankURL   string
	logLevel       string
	noCache        bool
)

// Execute runs the root command with the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fxmon",
		Short:        "Exchange rate and inflation monitor",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if frankfurterURL != "" {
				cfg.Upstream.FrankfurterURL = frankfurterURL
			}
			if worldBankURL != "" {
				cfg.Upstream.WorldBankURL = worldBankURL
			}
			if noCache {
				cfg.Cache.Enabled = false
			}
			cfg.Metrics.Enabled = false

			log := logger.NewJSONLogger(os.Stderr, logger.ParseLevel(logLevel))
			logger.SetDefaultLogger(log)

			wire, err = app.NewWire(cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&frankfurterURL, "frankfurter-url", "", "exchange rate API base URL (default from FRANKFURTER_URL)")
	root.PersistentFlags().StringVar(&worldBankURL, "worldbank-url", "", "inflation API base URL (default from WORLDBANK_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "log level written to stderr (DEBUG, INFO, WARN, ERROR)")
	root.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the in-process cache")

	root.AddCommand(
		currenciesCmd(),
		ratesCmd(),
		countriesCmd(),
		inflationCmd(),
		globalCmd(),
		dashboardCmd(),
	)
	return root
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
