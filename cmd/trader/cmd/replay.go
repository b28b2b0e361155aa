package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay ticks and orders from CSV",
	Long: `Replay market ticks, order placements and cancellations from a CSV file.

Columns: time,symbol,price,volume[,event,side,quantity,target]
The event column is empty, ORDER or CANCEL. CANCEL rows put the order ID
in the side column. A header row is optional.

Example:
  trader replay --csv ticks.csv --balance 25000 --journal-db ./replay.sqlite`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

var (
	replayCSV       string
	replayBalance   float64
	replayJournalDB string
	replayBuffer    int
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayCSV, "csv", "", "CSV file to replay (required)")
	replayCmd.Flags().Float64Var(&replayBalance, "balance", 10000, "starting cash balance")
	replayCmd.Flags().StringVar(&replayJournalDB, "journal-db", "", "record the replay to this SQLite journal")
	replayCmd.Flags().IntVar(&replayBuffer, "buffer", 64, "events buffered between reader and engine")
	replayCmd.MarkFlagRequired("csv")
}

func runReplay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	f, err := os.Open(replayCSV)
	if err != nil {
		return fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	jc := config.JournalConfig{Type: "none"}
	if replayJournalDB != "" {
		jc = config.JournalConfig{Type: "sqlite", DBPath: replayJournalDB}
	}
	j, err := openJournal(jc)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	s, err := newSession(out, "replay:"+replayCSV, replayBalance, j)
	if err != nil {
		j.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stats, runErr := replay.Run(ctx, replay.NewReader(f), s.engine, replay.Options{
		Logger: log.Logger,
		Buffer: replayBuffer,
	})

	fmt.Fprintf(out, "\nReplayed %d events (%d orders, %d cancels, %d rejected)\n",
		stats.Events, stats.Orders, stats.Cancels, stats.Rejected)

	_, err = s.finish()
	if runErr != nil {
		return fmt.Errorf("replay: %w", runErr)
	}
	return err
}
