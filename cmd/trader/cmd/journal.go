package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	runid "github.com/rustyeddy/tradesim/internal/id"
	"github.com/rustyeddy/tradesim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display records from a SQLite trade journal.

Subcommands:
  trades - List executed trades, optionally for one run
  runs   - Show the runs recorded in the journal

Examples:
  trader journal trades --db ./trader.sqlite
  trader journal trades --db ./trader.sqlite --run 01HZX...
  trader journal runs --db ./trader.sqlite`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List executed trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var (
	journalDBPath string
	journalRunID  string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalRunsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./trader.sqlite", "path to SQLite journal DB")
	journalTradesCmd.Flags().StringVar(&journalRunID, "run", "", "only trades from this run ID")
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTrades(journalRunID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ids, err := j.ListRunIDs()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	for _, id := range ids {
		sum, err := j.GetRun(id)
		if errors.Is(err, journal.ErrNotFound) {
			// Runs interrupted before their summary was written only have trades.
			started := "?"
			if t, terr := runid.Time(id); terr == nil {
				started = t.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(out, "* RUN: %s (no summary, started %s)\n", id, started)
			continue
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if err := sum.WriteOrg(out); err != nil {
			return err
		}
	}
	return nil
}
