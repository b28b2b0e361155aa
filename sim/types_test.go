package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"buy", Buy, false},
		{"BUY", Buy, false},
		{" sell ", Sell, false},
		{"short", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidArgument, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSideAndStatusStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "Side(9)", Side(9).String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "executed", Executed.String())
	assert.Equal(t, "cancelled", Cancelled.String())

	assert.False(t, Pending.Terminal())
	assert.True(t, Executed.Terminal())
	assert.True(t, Cancelled.Terminal())
}

func TestOrderJSON(t *testing.T) {
	t.Parallel()

	o := Order{ID: "ORD_0001", Symbol: "BTC", Side: Sell, Status: Executed}
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"order_type":"sell"`)
	assert.Contains(t, string(b), `"status":"executed"`)

	var back Order
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Sell, back.Side)
	assert.Equal(t, Executed, back.Status)

	_, err = json.Marshal(Order{Side: Side(7)})
	assert.Error(t, err)
}
