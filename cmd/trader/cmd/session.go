package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/sim"
)

// session is one engine run plus the journal it writes to.
type session struct {
	engine  *sim.Engine
	journal journal.Journal
	source  string
	started time.Time
	out     io.Writer
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "", "none":
		return journal.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}

func newSession(out io.Writer, source string, balance float64, j journal.Journal) (*session, error) {
	eng, err := sim.NewEngine(decimal.NewFromFloat(balance), j)
	if err != nil {
		return nil, err
	}
	eng.SetLogger(log.Logger)
	eng.SetTradeListener(tradePrinter{out: out})

	log.Info().
		Str("run", eng.RunID()).
		Str("source", source).
		Float64("balance", balance).
		Msg("session started")

	return &session{
		engine:  eng,
		journal: j,
		source:  source,
		started: time.Now(),
		out:     out,
	}, nil
}

type tradePrinter struct {
	out io.Writer
}

func (p tradePrinter) OnTradeExecuted(t sim.TradeRecord) {
	fmt.Fprintf(p.out, "EXEC  %-4s %s %s @ %s (%s) balance=%s\n",
		t.Side, t.Quantity, t.Symbol, t.ExecutionPrice, t.OrderID, t.BalanceAfter.StringFixed(2))
}

// applySteps drives the engine through steps. Each step's delay advances
// the simulated clock starting from start.
func (s *session) applySteps(steps []config.Step, start time.Time) error {
	now := start
	for i, step := range steps {
		delay, err := step.ParseDuration()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		now = now.Add(delay)

		switch {
		case step.Tick != nil:
			tk := step.Tick
			fmt.Fprintf(s.out, "TICK  %s %s (vol %s)\n", tk.Symbol, decimal.NewFromFloat(tk.Price), decimal.NewFromFloat(tk.Volume))
			if err := s.engine.UpdateMarketPrice(market.Symbol(tk.Symbol),
				decimal.NewFromFloat(tk.Price), decimal.NewFromFloat(tk.Volume), now); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		case step.Order != nil:
			ord := step.Order
			side, err := sim.ParseSide(ord.Side)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			o, err := s.engine.PlaceOrder(market.Symbol(ord.Symbol), side,
				decimal.NewFromFloat(ord.Quantity), decimal.NewFromFloat(ord.Target), now)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			fmt.Fprintf(s.out, "ORDER %s %s %s %s @ %s -> %s\n", o.ID, o.Side, o.Quantity, o.Symbol, o.TargetPrice, o.Status)
		case step.Cancel != nil:
			o, err := s.engine.CancelOrder(step.Cancel.OrderID, now)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			fmt.Fprintf(s.out, "CANCEL %s\n", o.ID)
		}
	}
	return nil
}

// finish prints the metrics, stores a run summary when the journal keeps
// them, and closes the journal.
func (s *session) finish() (journal.RunSummary, error) {
	m := s.engine.PerformanceMetrics()
	printMetrics(s.out, m, s.engine.Holdings(), s.engine.Snapshots())

	sum := journal.RunSummary{
		RunID:        s.engine.RunID(),
		Source:       s.source,
		Started:      s.started,
		Finished:     time.Now(),
		Trades:       m.TotalTrades,
		Pending:      len(s.engine.PendingOrders()),
		Positions:    m.PortfolioPositions,
		StartBalance: s.engine.InitialBalance(),
		EndValue:     m.CurrentValue,
		EndCash:      m.CashBalance,
		ReturnPct:    m.ReturnPercentage,
	}

	var err error
	if rr, ok := s.journal.(journal.RunRecorder); ok {
		if err = rr.RecordRun(sum); err != nil {
			err = fmt.Errorf("record run: %w", err)
		}
	}
	if cerr := s.journal.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close journal: %w", cerr)
	}

	log.Info().
		Str("run", sum.RunID).
		Int("trades", sum.Trades).
		Str("value", sum.EndValue.StringFixed(2)).
		Msg("session finished")
	return sum, err
}

func printMetrics(w io.Writer, m sim.Metrics, holdings map[market.Symbol]decimal.Decimal, snaps []market.Snapshot) {
	fmt.Fprintf(w, "\nFinal Results:\n")
	fmt.Fprintf(w, "  Cash Balance:    $%s\n", m.CashBalance.StringFixed(2))
	fmt.Fprintf(w, "  Portfolio Value: $%s\n", m.CurrentValue.StringFixed(2))
	fmt.Fprintf(w, "  Total Return:    $%s (%s%%)\n", m.TotalReturn.StringFixed(2), m.ReturnPercentage.StringFixed(2))
	fmt.Fprintf(w, "  Trades:          %d\n", m.TotalTrades)
	fmt.Fprintf(w, "  Positions:       %d\n", m.PortfolioPositions)
	for _, sym := range slices.Sorted(maps.Keys(holdings)) {
		fmt.Fprintf(w, "    %s: %s\n", sym, holdings[sym])
	}
	if len(snaps) > 0 {
		fmt.Fprintf(w, "  Latest Prices:\n")
		for _, snap := range snaps {
			fmt.Fprintf(w, "    %s: %s (vol %s)\n", snap.Symbol, snap.Price, snap.Volume)
		}
	}
}
