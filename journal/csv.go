package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader  = []string{"run_id", "order_id", "symbol", "side", "quantity", "price", "total", "executed_at", "balance_after"}
	equityHeader = []string{"run_id", "time", "balance", "equity", "positions"}
)

type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSVJournal{
		trades: csv.NewWriter(tf),
		equity: csv.NewWriter(ef),
		tf:     tf,
		ef:     ef,
	}
	if err := j.write(j.trades, tradeHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.RunID,
		t.OrderID,
		t.Symbol,
		t.Side,
		t.Quantity.String(),
		t.Price.String(),
		t.Total.String(),
		t.ExecutedAt.Format(time.RFC3339Nano),
		t.BalanceAfter.String(),
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.RunID,
		e.Time.Format(time.RFC3339Nano),
		e.Balance.String(),
		e.Equity.String(),
		strconv.Itoa(e.Positions),
	})
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.equity.Flush()

	errT := j.trades.Error()
	errE := j.equity.Error()
	errTF := j.tf.Close()
	errEF := j.ef.Close()

	for _, err := range []error{errT, errE, errTF, errEF} {
		if err != nil {
			return err
		}
	}
	return nil
}
