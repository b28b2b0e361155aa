package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the BTC/ETH example session",
	Long: `Runs a short scripted session against a $10,000 account:

  1. BTC trades at 45000 and ETH at 3000
  2. Buy 0.1 BTC at 44000 and 1 ETH at 2950 (both rest)
  3. BTC drops to 43500 and ETH to 2900, filling both buys
  4. Sell 0.05 BTC at 46000
  5. BTC rallies to 46500, filling the sell

Example:
  trader demo
  trader demo --journal-db ./demo.sqlite`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoJournalDB string

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoJournalDB, "journal-db", "", "record the session to this SQLite journal")
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := config.Default()
	if demoJournalDB != "" {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: demoJournalDB}
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	fmt.Fprintln(out, "=== Trading Simulator Demo ===")
	fmt.Fprintf(out, "Starting Balance: $%.2f\n\n", cfg.Account.Balance)

	s, err := newSession(out, "demo", cfg.Account.Balance, j)
	if err != nil {
		j.Close()
		return err
	}
	if err := s.applySteps(cfg.Simulation.Steps, time.Now()); err != nil {
		s.journal.Close()
		return err
	}
	_, err = s.finish()
	return err
}
