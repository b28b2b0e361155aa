package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Times are stored in UTC so DATETIME text compares in time order.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, order_id, symbol, side, quantity, price, total, executed_at, balance_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.OrderID, t.Symbol, t.Side, t.Quantity, t.Price,
		t.Total, t.ExecutedAt.UTC(), t.BalanceAfter,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, balance, equity, positions)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Time.UTC(), e.Balance, e.Equity, e.Positions,
	)
	return err
}

func (j *SQLite) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, source, started, finished, start_balance, end_value, end_cash, return_pct, trades, pending, positions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Source, r.Started.UTC(), r.Finished.UTC(), r.StartBalance, r.EndValue,
		r.EndCash, r.ReturnPct, r.Trades, r.Pending, r.Positions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
