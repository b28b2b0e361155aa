package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config represents a complete scripted run.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID      string  `json:"id" yaml:"id"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// SimulationConfig lists the steps applied to the engine, in order.
type SimulationConfig struct {
	Steps []Step `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Step is exactly one of a tick, an order placement or a cancellation.
type Step struct {
	Tick   *TickStep   `json:"tick,omitempty" yaml:"tick,omitempty"`
	Order  *OrderStep  `json:"order,omitempty" yaml:"order,omitempty"`
	Cancel *CancelStep `json:"cancel,omitempty" yaml:"cancel,omitempty"`
	Delay  string      `json:"delay,omitempty" yaml:"delay,omitempty"` // e.g., "1h", "30m", "1s"
}

type TickStep struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Price  float64 `json:"price" yaml:"price"`
	Volume float64 `json:"volume" yaml:"volume"`
}

type OrderStep struct {
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Side     string  `json:"side" yaml:"side"` // "buy" or "sell"
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Target   float64 `json:"target" yaml:"target"`
}

type CancelStep struct {
	OrderID string `json:"order_id" yaml:"order_id"`
}

// ParseDuration converts the delay string to time.Duration
func (s Step) ParseDuration() (time.Duration, error) {
	if s.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Delay)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Balance < 0 {
		return fmt.Errorf("account.balance must not be negative")
	}

	for i, s := range c.Simulation.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("simulation.steps[%d]: %w", i, err)
		}
	}

	if lvl := strings.TrimSpace(c.Log.Level); lvl != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(lvl)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

func (s Step) validate() error {
	set := 0
	for _, ok := range []bool{s.Tick != nil, s.Order != nil, s.Cancel != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of tick, order or cancel is required")
	}
	if _, err := s.ParseDuration(); err != nil {
		return fmt.Errorf("delay: %w", err)
	}

	switch {
	case s.Tick != nil:
		if s.Tick.Symbol == "" {
			return fmt.Errorf("tick.symbol is required")
		}
		if s.Tick.Price <= 0 {
			return fmt.Errorf("tick.price must be positive")
		}
		if s.Tick.Volume < 0 {
			return fmt.Errorf("tick.volume must not be negative")
		}
	case s.Order != nil:
		if s.Order.Symbol == "" {
			return fmt.Errorf("order.symbol is required")
		}
		if side := strings.ToLower(s.Order.Side); side != "buy" && side != "sell" {
			return fmt.Errorf("order.side must be 'buy' or 'sell'")
		}
		if s.Order.Quantity <= 0 {
			return fmt.Errorf("order.quantity must be positive")
		}
		if s.Order.Target <= 0 {
			return fmt.Errorf("order.target must be positive")
		}
	case s.Cancel != nil:
		if s.Cancel.OrderID == "" {
			return fmt.Errorf("cancel.order_id is required")
		}
	}
	return nil
}

func tick(sym string, price, volume float64) Step {
	return Step{Tick: &TickStep{Symbol: sym, Price: price, Volume: volume}}
}

func order(sym, side string, qty, target float64) Step {
	return Step{Order: &OrderStep{Symbol: sym, Side: side, Quantity: qty, Target: target}}
}

// Default returns the BTC/ETH demo session: two dip buys that fill after a
// price drop, then a take-profit sell on half the BTC.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:      "SIM-001",
			Balance: 10000,
		},
		Simulation: SimulationConfig{
			Steps: []Step{
				tick("BTC", 45000, 1000),
				tick("ETH", 3000, 2000),
				order("BTC", "buy", 0.1, 44000),
				order("ETH", "buy", 1, 2950),
				tick("BTC", 43500, 800),
				tick("ETH", 2900, 1500),
				order("BTC", "sell", 0.05, 46000),
				tick("BTC", 46500, 900),
			},
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
