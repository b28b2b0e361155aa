package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one executed order as written to a journal.
type TradeRecord struct {
	RunID        string          `json:"run_id"`
	OrderID      string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Side         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Total        decimal.Decimal `json:"total"`
	ExecutedAt   time.Time       `json:"timestamp"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// EquitySnapshot is the account valuation after an engine mutation.
type EquitySnapshot struct {
	RunID     string          `json:"run_id"`
	Time      time.Time       `json:"time"`
	Balance   decimal.Decimal `json:"balance"`
	Equity    decimal.Decimal `json:"equity"`
	Positions int             `json:"positions"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Engines built without a journal use it.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
