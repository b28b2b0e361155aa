package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "A single-account limit order trading simulator",
	Long: `Trader simulates one cash account trading against a stream of market ticks.

It provides tools for:
  - Placing buy and sell limit orders that fill when the price crosses
  - Running scripted sessions from YAML or JSON configuration
  - Replaying tick and order events from CSV
  - Journaling trades and equity to CSV or SQLite
  - Reporting portfolio value and return`,
	SilenceUsage:      true,
	PersistentPreRunE: setupGlobals,
}

var (
	logLevel  string
	logPretty bool
	envFile   string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human readable console logs")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default ./.env if present)")
}

// setupGlobals loads the env file and installs the global logger. Flags
// given on the command line win over TRADER_LOG_* variables.
func setupGlobals(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("log-level") {
		if v := os.Getenv(config.EnvLogLevel); v != "" {
			logLevel = v
		}
	}
	if !flags.Changed("log-pretty") {
		if v := os.Getenv(config.EnvLogPretty); v == "1" || v == "true" {
			logPretty = true
		}
	}

	if _, err := logging.Setup(logLevel, logPretty); err != nil {
		return err
	}
	log.Debug().Str("command", cmd.CommandPath()).Msg("starting")
	return nil
}
