package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// settleLocked executes o at price. Every check happens before any write,
// so a failed settlement leaves balance, holdings, status and history
// untouched and the order pending.
func (e *Engine) settleLocked(o *Order, price decimal.Decimal, at time.Time) (TradeRecord, error) {
	total := o.Quantity.Mul(price)
	held := e.holdings[o.Symbol]

	var balance, position decimal.Decimal
	switch o.Side {
	case Buy:
		if e.balance.LessThan(total) {
			return TradeRecord{}, ErrInsufficientFunds
		}
		balance = e.balance.Sub(total)
		position = held.Add(o.Quantity)
	case Sell:
		if held.LessThan(o.Quantity) {
			return TradeRecord{}, ErrInsufficientHoldings
		}
		balance = e.balance.Add(total)
		position = held.Sub(o.Quantity)
	default:
		return TradeRecord{}, ErrInvalidArgument
	}

	e.balance = balance
	if position.IsZero() {
		delete(e.holdings, o.Symbol)
	} else {
		e.holdings[o.Symbol] = position
	}
	o.Status = Executed

	rec := TradeRecord{
		OrderID:        o.ID,
		Symbol:         o.Symbol,
		Side:           o.Side,
		Quantity:       o.Quantity,
		ExecutionPrice: price,
		TotalValue:     total,
		ExecutedAt:     at,
		BalanceAfter:   balance,
	}
	e.history = append(e.history, rec)
	return rec, nil
}
