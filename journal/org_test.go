package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{
		RunID:        "01HZX",
		OrderID:      "ORD_0001",
		Symbol:       "BTC",
		Side:         "buy",
		Quantity:     dec("0.1"),
		Price:        dec("43500"),
		Total:        dec("4350"),
		ExecutedAt:   time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
		BalanceAfter: dec("5650"),
	}

	result := FormatTradeOrg(trade)

	assert.True(t, strings.HasPrefix(result, "** Trade: BUY 0.1 BTC (ORD_0001)\n"))
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":RUN_ID: 01HZX")
	assert.Contains(t, result, ":PRICE: 43500")
	assert.Contains(t, result, ":TOTAL: 4350.00")
	assert.Contains(t, result, ":EXECUTED_AT: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":BALANCE_AFTER: 5650.00")
	assert.Contains(t, result, ":END:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	out := FormatTradesOrg([]TradeRecord{
		{OrderID: "ORD_0001", Symbol: "BTC", Side: "buy"},
		{OrderID: "ORD_0002", Symbol: "ETH", Side: "sell"},
	})
	assert.Equal(t, 2, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, "SELL 0 ETH (ORD_0002)")
}

func TestRunSummaryWriteOrg(t *testing.T) {
	t.Parallel()

	sum := RunSummary{
		RunID:        "01HZX",
		Source:       "demo",
		Started:      time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Finished:     time.Date(2024, 3, 15, 10, 31, 0, 0, time.UTC),
		Trades:       3,
		Pending:      0,
		Positions:    2,
		StartBalance: dec("10000"),
		EndValue:     dec("10120"),
		EndCash:      dec("7975"),
		ReturnPct:    dec("1.2"),
	}

	var buf bytes.Buffer
	require.NoError(t, sum.WriteOrg(&buf))

	out := buf.String()
	assert.Contains(t, out, "* RUN: demo")
	assert.Contains(t, out, ":RUN_ID:      01HZX")
	assert.Contains(t, out, ":START_BAL:   10000.00")
	assert.Contains(t, out, ":NET_PL:      120.00")
	assert.Contains(t, out, ":RETURN_PCT:  1.20")
	assert.Contains(t, out, ":TRADES:      3")
	assert.Contains(t, out, "[2024-03-15 Fri 10:30]")
}
