package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, "none", cfg.Journal.Type)
	assert.Len(t, cfg.Simulation.Steps, 8)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "zero balance allowed",
			config:  &Config{Account: AccountConfig{Balance: 0}},
			wantErr: false,
		},
		{
			name:    "negative balance",
			config:  &Config{Account: AccountConfig{Balance: -1000}},
			wantErr: true,
			errMsg:  "account.balance must not be negative",
		},
		{
			name: "empty step",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{{}}},
			},
			wantErr: true,
			errMsg:  "simulation.steps[0]: exactly one of tick, order or cancel is required",
		},
		{
			name: "two actions in one step",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{{
					Tick:   &TickStep{Symbol: "BTC", Price: 1},
					Cancel: &CancelStep{OrderID: "ORD_0001"},
				}}},
			},
			wantErr: true,
			errMsg:  "exactly one of tick, order or cancel",
		},
		{
			name: "tick without price",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{tick("BTC", 0, 1)}},
			},
			wantErr: true,
			errMsg:  "tick.price must be positive",
		},
		{
			name: "tick negative volume",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{tick("BTC", 1, -1)}},
			},
			wantErr: true,
			errMsg:  "tick.volume must not be negative",
		},
		{
			name: "order bad side",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{order("BTC", "short", 1, 1)}},
			},
			wantErr: true,
			errMsg:  "order.side must be 'buy' or 'sell'",
		},
		{
			name: "order zero quantity",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{tick("BTC", 1, 1), order("BTC", "buy", 0, 1)}},
			},
			wantErr: true,
			errMsg:  "simulation.steps[1]: order.quantity must be positive",
		},
		{
			name: "order zero target",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{order("BTC", "SELL", 1, 0)}},
			},
			wantErr: true,
			errMsg:  "order.target must be positive",
		},
		{
			name: "bad delay",
			config: &Config{
				Simulation: SimulationConfig{Steps: []Step{{Tick: &TickStep{Symbol: "BTC", Price: 1}, Delay: "soon"}}},
			},
			wantErr: true,
			errMsg:  "delay",
		},
		{
			name:    "unknown log level",
			config:  &Config{Log: LogConfig{Level: "verbose"}},
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "upper case log level",
			config:  &Config{Log: LogConfig{Level: "DEBUG"}},
			wantErr: false,
		},
		{
			name:    "csv journal missing files",
			config:  &Config{Journal: JournalConfig{Type: "csv"}},
			wantErr: true,
			errMsg:  "journal trades_file and equity_file required for CSV type",
		},
		{
			name:    "sqlite journal missing path",
			config:  &Config{Journal: JournalConfig{Type: "sqlite"}},
			wantErr: true,
			errMsg:  "journal db_path required for SQLite type",
		},
		{
			name:    "unknown journal",
			config:  &Config{Journal: JournalConfig{Type: "kafka"}},
			wantErr: true,
			errMsg:  "journal.type must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Account, loaded.Account)
			assert.Equal(t, cfg.Journal, loaded.Journal)
			require.Len(t, loaded.Simulation.Steps, len(cfg.Simulation.Steps))
			assert.Equal(t, *cfg.Simulation.Steps[2].Order, *loaded.Simulation.Steps[2].Order)
			assert.Equal(t, *cfg.Simulation.Steps[7].Tick, *loaded.Simulation.Steps[7].Tick)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
account:
  id: ACC-9
  balance: 2500
simulation:
  steps:
    - tick: {symbol: SOL, price: 150, volume: 10}
    - order: {symbol: SOL, side: buy, quantity: 2, target: 140}
      delay: 1m
    - cancel: {order_id: ORD_0001}
journal:
  type: sqlite
  db_path: ./run.sqlite
log:
  level: debug
  pretty: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ACC-9", cfg.Account.ID)
	assert.Equal(t, 2500.0, cfg.Account.Balance)
	require.Len(t, cfg.Simulation.Steps, 3)
	assert.Equal(t, "SOL", cfg.Simulation.Steps[0].Tick.Symbol)
	assert.Equal(t, 140.0, cfg.Simulation.Steps[1].Order.Target)
	assert.Equal(t, "ORD_0001", cfg.Simulation.Steps[2].Cancel.OrderID)
	d, err := cfg.Simulation.Steps[1].ParseDuration()
	require.NoError(t, err)
	assert.Equal(t, "1m0s", d.String())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  balance: -5\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestStepParseDuration(t *testing.T) {
	tests := []struct {
		delay    string
		expected string
		wantErr  bool
	}{
		{"1h", "1h0m0s", false},
		{"30m", "30m0s", false},
		{"1s", "1s", false},
		{"", "0s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.delay, func(t *testing.T) {
			s := Step{Delay: tt.delay}
			d, err := s.ParseDuration()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}
