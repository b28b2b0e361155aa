package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradesim/market"
	"github.com/shopspring/decimal"
)

// Order is a limit order. Only Status changes after placement.
type Order struct {
	ID          string          `json:"order_id"`
	Symbol      market.Symbol   `json:"symbol"`
	Side        Side            `json:"order_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	TargetPrice decimal.Decimal `json:"target_price"`
	PlacedAt    time.Time       `json:"timestamp"`
	Status      Status          `json:"status"`

	seq uint64
}

func formatOrderID(seq uint64) string {
	return fmt.Sprintf("ORD_%04d", seq)
}

// TradeRecord is the settled result of one executed order.
type TradeRecord struct {
	OrderID        string          `json:"id"`
	Symbol         market.Symbol   `json:"symbol"`
	Side           Side            `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExecutionPrice decimal.Decimal `json:"price"`
	TotalValue     decimal.Decimal `json:"total"`
	ExecutedAt     time.Time       `json:"timestamp"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
}
