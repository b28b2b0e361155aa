package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceMetricsDemoSession(t *testing.T) {
	e, _ := newEngine(t, "10000")

	tick(t, e, "BTC", "45000", "1000", t0)
	tick(t, e, "ETH", "3000", "2000", t0)
	place(t, e, "BTC", Buy, "0.1", "44000", t0)
	place(t, e, "ETH", Buy, "1", "2950", t0)

	tick(t, e, "BTC", "43500", "800", t0.Add(time.Minute))
	tick(t, e, "ETH", "2900", "1500", t0.Add(time.Minute))
	assertDec(t, "2750", e.Balance())

	place(t, e, "BTC", Sell, "0.05", "46000", t0.Add(2*time.Minute))
	tick(t, e, "BTC", "46500", "900", t0.Add(3*time.Minute))

	m := e.PerformanceMetrics()
	assertDec(t, "10300", m.CurrentValue)
	assertDec(t, "300", m.TotalReturn)
	assertDec(t, "3", m.ReturnPercentage)
	assertDec(t, "5075", m.CashBalance)
	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 2, m.PortfolioPositions)
	assertDec(t, "10300", e.PortfolioValue())
}

func TestPerformanceMetricsUsesConstructorBalance(t *testing.T) {
	e, _ := newEngine(t, "50000")

	m := e.PerformanceMetrics()
	assertDec(t, "50000", m.CurrentValue)
	assertDec(t, "0", m.TotalReturn)
	assertDec(t, "0", m.ReturnPercentage)
	assertDec(t, "50000", e.InitialBalance())
}

func TestPerformanceMetricsZeroInitialBalance(t *testing.T) {
	e, err := NewEngine(decimal.Zero, nil)
	require.NoError(t, err)

	tick(t, e, "BTC", "100", "1", t0)
	m := e.PerformanceMetrics()
	assertDec(t, "0", m.ReturnPercentage)
	assertDec(t, "0", m.CurrentValue)
	assert.Equal(t, 0, m.TotalTrades)
}

func TestPortfolioValueSkipsUnpricedHoldings(t *testing.T) {
	e, _ := newEngine(t, "1000")

	// Holdings normally come from settlement, which always has a price.
	// Seed one directly to check the no-snapshot path.
	e.holdings["GHOST"] = d("5")
	tick(t, e, "ETH", "10", "1", t0)
	e.holdings["ETH"] = d("2")

	assertDec(t, "1020", e.PortfolioValue())
	assert.Equal(t, 2, e.PerformanceMetrics().PortfolioPositions)
}

func TestMetricsJSON(t *testing.T) {
	e, _ := newEngine(t, "10000")

	b, err := json.Marshal(e.PerformanceMetrics())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	for _, k := range []string{"current_value", "total_return", "return_percentage", "total_trades", "cash_balance", "portfolio_positions"} {
		assert.Contains(t, out, k)
	}
}
