package sim

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type Metrics struct {
	CurrentValue       decimal.Decimal `json:"current_value"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	ReturnPercentage   decimal.Decimal `json:"return_percentage"`
	TotalTrades        int             `json:"total_trades"`
	CashBalance        decimal.Decimal `json:"cash_balance"`
	PortfolioPositions int             `json:"portfolio_positions"`
}

// PortfolioValue is cash plus every holding marked at its latest price.
// Holdings with no snapshot yet count as zero.
func (e *Engine) PortfolioValue() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.portfolioValueLocked()
}

func (e *Engine) portfolioValueLocked() decimal.Decimal {
	total := e.balance
	for sym, qty := range e.holdings {
		if snap, ok := e.prices.Get(sym); ok {
			total = total.Add(qty.Mul(snap.Price))
		}
	}
	return total
}

// PerformanceMetrics measures the portfolio against the initial balance.
// ReturnPercentage is zero when the engine started with no cash.
func (e *Engine) PerformanceMetrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	value := e.portfolioValueLocked()
	pct := decimal.Zero
	if !e.initial.IsZero() {
		pct = value.Div(e.initial).Sub(decimal.NewFromInt(1)).Mul(hundred)
	}
	return Metrics{
		CurrentValue:       value,
		TotalReturn:        value.Sub(e.initial),
		ReturnPercentage:   pct,
		TotalTrades:        len(e.history),
		CashBalance:        e.balance,
		PortfolioPositions: len(e.holdings),
	}
}
