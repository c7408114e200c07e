package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"nestquote/internal/config"
	"nestquote/internal/customers"
	"nestquote/internal/logger"
	"nestquote/internal/quotenum"
	"nestquote/internal/settings"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "nestquote",
	Short: "Price laser-cutting jobs from nesting exports and build quotes",
	Long: `nestquote turns the XML exports of nesting software into priced quotes.

Each imported file contributes a laser-time line and a material line, priced
with the hourly laser rate from the settings file. Configured extra charges
(setup, deburr, welding, paint, ...) are added as flat fees, then discount and
tax are applied.

Settings, customers and the quote-number counter live in the per-user data
directory (override with NESTQUOTE_DATA_DIR or --data-dir).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadAppConfig(cmd)
	},
}

// appConfig is loaded once before any subcommand runs.
var appConfig *config.Config

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: $NESTQUOTE_DATA_DIR or the user config dir)")
}

func loadAppConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	appConfig = cfg

	cmdLog := logger.WithComponent("cmd")
	cmdLog.Debug().
		Str("data_dir", cfg.DataDir).
		Str("legacy_dir", cfg.LegacyDir).
		Msg("Configuration loaded")
	return nil
}

func settingsStore() *settings.Store {
	return settings.NewStore(appConfig.SettingsPath(), appConfig.LegacySettingsPath())
}

func customerStore() *customers.Store {
	return customers.NewStore(appConfig.CustomersPath(), appConfig.LegacyCustomersPath())
}

func quoteIssuer() *quotenum.Issuer {
	return quotenum.NewIssuer(quotenum.NewFileCounter(appConfig.CounterPath(), appConfig.LegacyCounterPath()))
}
